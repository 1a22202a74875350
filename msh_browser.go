package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/mogaika/msh_browser/config"
	"github.com/mogaika/msh_browser/msh"
	"github.com/mogaika/msh_browser/vfs"
	"github.com/mogaika/msh_browser/web"
)

func main() {
	var addr, dir, encoding string
	var legacyNormals bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to folder with msh files")
	flag.StringVar(&encoding, "encoding", config.GetEncoding().String(), "Charmap of strings in msh files")
	flag.BoolVar(&legacyNormals, "legacynormals", false, "Read normals using positions count")
	flag.Parse()

	if dir == "" {
		flag.PrintDefaults()
		return
	}

	if st, err := os.Stat(dir); err != nil {
		log.Fatal(err)
	} else if !st.IsDir() {
		log.Fatalf("%s is not a directory", dir)
	}

	if err := config.SetEncoding(encoding); err != nil {
		log.Fatalf("%v, available: %s", err, strings.Join(config.ListEncodings(), ", "))
	}

	if legacyNormals {
		web.DecodeOptions = append(web.DecodeOptions, msh.WithLegacyNormalCount())
	}

	if err := web.StartServer(addr, vfs.NewDirectoryDriver(dir)); err != nil {
		log.Fatal(err)
	}
}
