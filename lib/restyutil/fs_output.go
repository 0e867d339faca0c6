package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	devenv "barman/dev/env"

	"github.com/go-resty/resty/v2"
)

// FilesystemOutput writes one file per http exchange, numbered in the
// order responses arrive.
type FilesystemOutput struct {
	directory string
	counter   *atomic.Uint64
}

// NewFilesystemOutput accepts "<dev_state>/..." paths.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir, counter: &atomic.Uint64{}}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// Dump registers a response hook on client that writes every exchange
// to the output directory.
func (o FilesystemOutput) Dump(client *resty.Client, prefix string) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := prefix + "-" + strconv.FormatUint(o.counter.Add(1), 10) + ".txt"
		o.Write(id, formatHttpMessage(res))
		return nil
	})
}
