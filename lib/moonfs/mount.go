// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package moonfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/bureau-foundation/moonphase/lib/device"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"golang.org/x/sys/unix"
)

// DefaultFileName is the name of the device file in the mount root.
const DefaultFileName = "moonphase"

// DefaultMode is the permission mode of the device file. Writable so
// that write attempts reach the device and get its answer.
const DefaultMode = 0o666

// fuseDevice is the kernel interface go-fuse opens to mount.
const fuseDevice = "/dev/fuse"

// fusermountBinaries are the setuid helpers go-fuse runs to mount and
// unmount without privileges, in the order it looks for them.
var fusermountBinaries = []string{"fusermount3", "fusermount"}

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	// It is created if it does not exist.
	Mountpoint string

	// Device serves opens, reads, and writes. Required.
	Device *device.Device

	// FileName is the name of the device file. Empty uses
	// DefaultFileName.
	FileName string

	// Mode holds the permission bits of the device file. Zero uses
	// DefaultMode.
	Mode uint32

	// AllowOther permits other users to open the file. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages. If nil, errors go to
	// stderr and everything else is dropped.
	Logger *slog.Logger
}

// Available reports whether this process can mount: the FUSE device
// must be readable and writable, and a fusermount helper must be on
// PATH.
func Available() error {
	if err := unix.Access(fuseDevice, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("%s not accessible: %w", fuseDevice, err)
	}
	_, err := findHelper(fusermountBinaries)
	return err
}

// findHelper returns the path of the first of names found on PATH.
func findHelper(names []string) (string, error) {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %s found in PATH", strings.Join(names, ", "))
}

// Mount mounts the device filesystem at the configured mountpoint. The
// caller must call Unmount on the returned Server when done.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Device == nil {
		return nil, fmt.Errorf("device is required")
	}
	if options.FileName == "" {
		options.FileName = DefaultFileName
	}
	if strings.ContainsRune(options.FileName, '/') || options.FileName == "." || options.FileName == ".." {
		return nil, fmt.Errorf("invalid file name %q", options.FileName)
	}
	if options.Mode == 0 {
		options.Mode = DefaultMode
	}
	options.Mode &= 0o777
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &rootNode{options: &options}

	// The file's attributes never change, and its content is never
	// cached (direct I/O), so generous timeouts are safe.
	entryTimeout := 10 * time.Second
	attrTimeout := 10 * time.Second

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout: &entryTimeout,
		AttrTimeout:  &attrTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "moonphase",
			Name:       "moonphase",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("moon phase filesystem mounted",
		"mountpoint", options.Mountpoint,
		"file", options.FileName,
	)
	return server, nil
}

// rootNode is the filesystem root. Its only child is the device file.
type rootNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*rootNode)(nil)
var _ gofuse.NodeOnAdder = (*rootNode)(nil)

func (r *rootNode) OnAdd(ctx context.Context) {
	file := r.NewPersistentInode(ctx, &deviceNode{options: r.options}, gofuse.StableAttr{Mode: syscall.S_IFREG})
	r.AddChild(r.options.FileName, file, true)
}

// deviceNode is the device file.
type deviceNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*deviceNode)(nil)
var _ gofuse.NodeGetattrer = (*deviceNode)(nil)
var _ gofuse.NodeSetattrer = (*deviceNode)(nil)
var _ gofuse.NodeOpener = (*deviceNode)(nil)

func (n *deviceNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	n.fillAttr(out)
	return 0
}

// Setattr accepts and ignores truncation so that opening with O_TRUNC
// (shell redirection) reaches Open and then Write, which is where the
// device rejects it. Other attribute changes are ignored as well.
func (n *deviceNode) Setattr(_ context.Context, _ gofuse.FileHandle, _ *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	n.fillAttr(out)
	return 0
}

func (n *deviceNode) fillAttr(out *fuse.AttrOut) {
	out.Mode = syscall.S_IFREG | n.options.Mode
	out.Size = 0
	out.Nlink = 1
}

func (n *deviceNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	session, err := n.options.Device.Open()
	if err != nil {
		return nil, 0, toErrno(err)
	}

	handle := &sessionHandle{session: session, logger: n.options.Logger}
	return handle, fuse.FOPEN_DIRECT_IO | fuse.FOPEN_NONSEEKABLE, 0
}

// sessionHandle is the per-open file handle: one device session.
type sessionHandle struct {
	session *device.Session
	logger  *slog.Logger
}

var _ gofuse.FileReader = (*sessionHandle)(nil)
var _ gofuse.FileWriter = (*sessionHandle)(nil)
var _ gofuse.FileReleaser = (*sessionHandle)(nil)

// Read serves from the session cursor. The kernel offset is not used.
func (h *sessionHandle) Read(_ context.Context, dest []byte, _ int64) (fuse.ReadResult, syscall.Errno) {
	count, err := h.session.Read(dest)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("device read failed", "error", err)
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:count]), 0
}

func (h *sessionHandle) Write(_ context.Context, data []byte, _ int64) (uint32, syscall.Errno) {
	written, err := h.session.Write(data)
	if err != nil {
		return 0, toErrno(err)
	}
	return uint32(written), 0
}

func (h *sessionHandle) Release(_ context.Context) syscall.Errno {
	if err := h.session.Close(); err != nil {
		h.logger.Error("releasing device session", "error", err)
		return syscall.EIO
	}
	return 0
}

// toErrno maps device errors onto the errno values a character device
// driver would return.
func toErrno(err error) syscall.Errno {
	switch {
	case errors.Is(err, device.ErrBusy):
		return syscall.EBUSY
	case errors.Is(err, device.ErrNotSupported):
		return syscall.EINVAL
	case errors.Is(err, device.ErrClosed):
		return syscall.EBADF
	default:
		return syscall.EIO
	}
}
