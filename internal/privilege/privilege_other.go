//go:build !windows

package privilege

import (
	"os"
	"os/user"
	"strconv"
)

func current() Identity {
	uid := os.Geteuid()
	name := strconv.Itoa(uid)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	return Identity{Privileged: uid == 0, Name: name}
}
