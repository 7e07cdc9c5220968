package lum

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// 数据集持有的文件句柄
type File interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

type syncer interface {
	Sync() error
}

// 打开请求：文件名、访问模式、预读的文件头及文件句柄。
// Open成功后句柄的所有权移交给数据集，File置为nil
type OpenInfo struct {
	Filename string
	Access   Access
	Header   []byte
	File     File
}

// 打开文件并预读文件头
func NewOpenInfo(filename string, access Access) (info *OpenInfo, err error) {
	flag := os.O_RDONLY
	if access == Update {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(filename, flag, 0)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrOpenFailed, err)
		return
	}
	header := make([]byte, OPEN_HEADER_SIZE)
	n, err := f.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		err = fmt.Errorf("%w: %v", ErrOpenFailed, err)
		return
	}
	info = &OpenInfo{
		Filename: filename,
		Access:   access,
		Header:   header[:n],
		File:     f,
	}
	err = nil
	return
}

// 取走文件句柄
func (o *OpenInfo) TakeFile() (f File) {
	f, o.File = o.File, nil
	return
}

// 释放未被取走的句柄
func (o *OpenInfo) Close() (err error) {
	if f := o.TakeFile(); f != nil {
		err = f.Close()
	}
	return
}
