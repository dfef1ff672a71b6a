//go:build windows

package privilege

import (
	"golang.org/x/sys/windows"
)

func current() Identity {
	token := windows.GetCurrentProcessToken()

	id := Identity{Name: "unknown"}
	if user, err := token.GetTokenUser(); err == nil {
		if user.User.Sid.IsWellKnown(windows.WinLocalSystemSid) {
			return Identity{Privileged: true, Name: "LocalSystem"}
		}
		if account, domain, _, err := user.User.Sid.LookupAccount(""); err == nil {
			id.Name = domain + `\` + account
		}
	}

	id.Privileged = token.IsElevated()
	return id
}
