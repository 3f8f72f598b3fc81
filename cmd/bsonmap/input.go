package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// eachInput calls f with a reader for each file in turn, or for stdin
// when there are none or a file is "-". Zstd compressed input is
// decompressed when forced or when it starts with the zstd magic number.
func eachInput(in io.Reader, files []string, forceZstd bool, f func(name string, r io.Reader) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		if err := eachFile(in, file, forceZstd, f); err != nil {
			return err
		}
	}
	return nil
}

func eachFile(in io.Reader, file string, forceZstd bool, f func(name string, r io.Reader) error) error {
	r := in
	if file != "-" {
		fd, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", file, err)
		}
		defer fd.Close()
		r = fd
	} else {
		file = "<stdin>"
	}
	br := bufio.NewReader(r)
	r = br
	if magic, _ := br.Peek(len(zstdMagic)); forceZstd || bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		defer dec.Close()
		r = dec
	}
	return f(file, r)
}
