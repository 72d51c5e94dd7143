package route

import (
	"archive/zip"
	"context"
	"path"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadKMZ opens a KMZ archive and reads the features of its main KML
// document. The main document is doc.kml when present, otherwise the first
// .kml entry by name.
func ReadKMZ(ctx context.Context, kmzPath string) ([]Feature, error) {
	r, err := zip.OpenReader(kmzPath)
	if err != nil {
		return nil, eris.Wrapf(err, "route: open archive %s", kmzPath)
	}
	defer r.Close() //nolint:errcheck

	f, err := mainDocument(r.File)
	if err != nil {
		return nil, eris.Wrapf(err, "route: %s", kmzPath)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "route: open %s in %s", f.Name, kmzPath)
	}
	defer rc.Close() //nolint:errcheck

	features, err := ReadKML(ctx, rc, kmzPath)
	if err != nil {
		return nil, eris.Wrapf(err, "route: parse %s", kmzPath)
	}
	return features, nil
}

func mainDocument(files []*zip.File) (*zip.File, error) {
	var docs []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".kml") {
			continue
		}
		if strings.EqualFold(f.Name, "doc.kml") {
			return f, nil
		}
		docs = append(docs, f)
	}
	if len(docs) == 0 {
		return nil, eris.New("no KML document in archive")
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs[0], nil
}
