package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.txt grids/*.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// DefaultWords returns the embedded fallback word list.
func DefaultWords() ([]string, error) {
	return readLines("words.txt")
}

// SampleGrid returns the raw text of an embedded sample grid, e.g. "grid1".
func SampleGrid(name string) (string, error) {
	b, err := FS.ReadFile("grids/" + name + ".txt")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
