package utils

import (
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/text/cases"
)

var (
	folder = cases.Fold()
)

func StrToInt(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// 大小写无关的比较（Unicode case folding）
func EqualFold(a, b string) bool {
	return folder.String(a) == folder.String(b)
}

// 拆分 KEY=VALUE 形式的选项，无等号时 ok 为 false
func SplitNameValue(opt string) (key, value string, ok bool) {
	i := strings.IndexByte(opt, '=')
	if i <= 0 {
		return
	}
	key = strings.TrimSpace(opt[:i])
	value = strings.TrimSpace(opt[i+1:])
	ok = true
	return
}

// 从 KEY=VALUE 选项列表中取出 key 对应的值（key大小写无关），后出现的覆盖先出现的
func FetchNameValue(opts []string, key string) (value string, found bool) {
	for _, opt := range opts {
		k, v, ok := SplitNameValue(opt)
		if ok && EqualFold(k, key) {
			value, found = v, true
		}
	}
	return
}

// 选项列表转map，key统一转大写
func NameValuesToMap(opts []string) map[string]string {
	ret := make(map[string]string, len(opts))
	for _, opt := range opts {
		if k, v, ok := SplitNameValue(opt); ok {
			ret[strings.ToUpper(k)] = v
		}
	}
	return ret
}

// map转 KEY=VALUE 选项列表
func MapToNameValues(m map[string]string) []string {
	ret := make([]string, 0, len(m))
	for k, v := range m {
		ret = append(ret, k+"="+v)
	}
	return ret
}
