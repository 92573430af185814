package driver

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"

	"jvlint/internal/source"
)

// loadJar expands every .class member of a jar archive into the file set.
// Entry order inside the archive is not meaningful; members are added in
// sorted name order so downstream output stays deterministic.
func loadJar(fileSet *source.FileSet, path string) ([]source.FileID, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	members := make([]*zip.File, 0, len(rc.File))
	for _, f := range rc.File {
		if strings.HasSuffix(f.Name, ".class") {
			members = append(members, f)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	ids := make([]source.FileID, 0, len(members))
	for _, f := range members {
		content, err := readMember(f)
		if err != nil {
			return nil, fmt.Errorf("jar %s entry %s: %w", path, f.Name, err)
		}
		ids = append(ids, fileSet.AddArchived(path, f.Name, content))
	}
	return ids, nil
}

func readMember(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()
	return io.ReadAll(r)
}
