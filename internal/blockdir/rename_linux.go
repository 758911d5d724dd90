package blockdir

// The _linux.go filename suffix is the build constraint: this file only
// builds for GOOS=linux, matching the teacher's own Linux-only assumption
// throughout its tree. RENAME_NOREPLACE has no portable equivalent, so
// there is no other-GOOS fallback.

import "golang.org/x/sys/unix"

// renameat2NoReplace publishes oldpath as newpath using RENAME_NOREPLACE,
// a kernel-enforced create-or-fail rename: it returns syscall.EEXIST if
// newpath already exists, and never clobbers it. This is the primitive the
// write protocol needs and a plain os.Rename cannot provide.
func renameat2NoReplace(oldpath, newpath string) error {
	return unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
}
