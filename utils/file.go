package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 在dir下生成唯一的临时文件路径（不创建文件），ext带点号
func GetUniqTmpPath(dir, ext string) string {
	return filepath.Join(dir, uuid.NewString()+ext)
}

// 文件扩展名（不含点号）是否为ext，大小写无关
func HasExt(path, ext string) bool {
	e := strings.TrimPrefix(filepath.Ext(path), ".")
	return EqualFold(e, strings.TrimPrefix(ext, "."))
}

// 替换文件扩展名，ext带点号
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// 先写入同目录临时文件，成功后改名，失败则删除临时文件
func WriteFileAtomic(path string, write func(tmp string) error) (err error) {
	tmp := GetUniqTmpPath(filepath.Dir(path), filepath.Ext(path))
	if err = write(tmp); err != nil {
		os.Remove(tmp)
		return
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
	}
	return
}

// 移动文件，跨设备时退化为复制后删除
func MoveFile(src, dst string) (err error) {
	if err = os.Rename(src, dst); err == nil {
		return
	}
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return
	}
	if err = out.Close(); err != nil {
		return
	}
	in.Close()
	err = os.Remove(src)
	return
}
