package output

import (
	"bufio"
	"os"
)

// WriteFile creates or truncates path and writes content through a buffer.
// The buffer is flushed and the file closed on every path out of the
// function; the first error seen is returned. No temp file or backup is
// used, so a failed write can leave a truncated file behind.
func WriteFile(path, content string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = w.WriteString(content)
	return err
}
