package cache

import "strings"

// EntryName builds the file name for a memoized result:
// {module}_{function}_{key}{ext}. Module and function are sanitized so the
// result is a single safe path element; key is expected to be hex already.
//
// When the name, plus room for CompressedExt, would exceed MaxNameLength the
// {module}_{function} prefix is cut from the left, keeping the function name
// and the tail of the module.
func EntryName(module, function, key, ext string) string {
	prefix := Sanitize(module) + "_" + Sanitize(function)
	key = Sanitize(key)

	if budget := MaxNameLength - len(CompressedExt) - len(key) - len(ext) - 1; len(prefix) > budget && budget > 0 {
		prefix = strings.TrimLeft(prefix[len(prefix)-budget:], ".")
	}

	var b strings.Builder
	b.Grow(len(prefix) + len(key) + len(ext) + 1)
	b.WriteString(prefix)
	b.WriteByte('_')
	b.WriteString(key)
	b.WriteString(ext)
	return b.String()
}

// Sanitize replaces every byte outside [A-Za-z0-9._-] with '-' and strips
// leading dots so the result never names a hidden or relative entry.
func Sanitize(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			out[i] = '-'
		}
	}
	return strings.TrimLeft(string(out), ".")
}
