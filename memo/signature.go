package memo

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/jonwraymond/filememo/fingerprint"
)

// symbolName returns the runtime symbol of fn, e.g.
// "github.com/acme/pipeline.Square" or "main.main.func1".
func symbolName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// splitSymbol separates a runtime symbol into its package path and the
// function name within the package.
func splitSymbol(sym string) (module, name string) {
	slash := strings.LastIndex(sym, "/")
	dot := strings.Index(sym[slash+1:], ".")
	if dot < 0 {
		return "", sym
	}
	dot += slash + 1
	// The runtime escapes dots in the last path element.
	module = strings.ReplaceAll(sym[:dot], "%2e", ".")
	return module, strings.TrimSuffix(sym[dot+1:], "-fm")
}

// buildIdentity describes the running binary. A clean VCS build is
// identified by module path, version and revision; anything else also
// carries a digest of the executable.
type buildIdentity struct {
	Path       string
	Version    string
	Sum        string
	Revision   string
	Modified   string
	Executable string
}

var currentBuild = sync.OnceValue(func() buildIdentity {
	var id buildIdentity
	if info, ok := debug.ReadBuildInfo(); ok {
		id.Path = info.Main.Path
		id.Version = info.Main.Version
		id.Sum = info.Main.Sum
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				id.Revision = s.Value
			case "vcs.modified":
				id.Modified = s.Value
			}
		}
	}
	if id.Revision == "" || id.Modified == "true" {
		id.Executable = executableDigest()
	}
	return id
})

func executableDigest() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}

// behaviorSignature fingerprints what the function is: its qualified name,
// declared parameters, and either its version tag or, when untagged, the
// identity of the binary it was compiled into.
func behaviorSignature(module, name string, params []string, version string) string {
	desc := map[string]any{
		"module": module,
		"name":   name,
		"params": params,
	}
	if version != "" {
		desc["version"] = version
	} else {
		desc["build"] = currentBuild()
	}
	return fingerprint.Sum(desc)
}
