package metadata

import "fmt"

// Version is a Java Edition protocol number.
type Version int32

const (
	V1_8   Version = 47
	V1_9   Version = 107
	V1_9_4 Version = 110
	V1_10  Version = 210
)

var versionNames = []struct {
	v    Version
	name string
}{
	{V1_8, "1.8"},
	{V1_9, "1.9"},
	{V1_9_4, "1.9.4"},
	{V1_10, "1.10"},
}

func (v Version) String() string {
	for _, vn := range versionNames {
		if vn.v == v {
			return vn.name
		}
	}
	return fmt.Sprintf("protocol-%d", int32(v))
}

// ParseVersion resolves a release name such as "1.9.4".
func ParseVersion(s string) (Version, error) {
	for _, vn := range versionNames {
		if vn.name == s {
			return vn.v, nil
		}
	}
	return 0, fmt.Errorf("unknown protocol version %q", s)
}

// Versions returns every supported protocol, oldest first.
func Versions() []Version {
	out := make([]Version, len(versionNames))
	for i, vn := range versionNames {
		out[i] = vn.v
	}
	return out
}

// legacy reports whether v uses the 1.8 packed metadata header.
func (v Version) legacy() bool {
	return v < V1_9
}
