package web

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mogaika/msh_browser/msh/mshtest"
	"github.com/mogaika/msh_browser/vfs"
)

func testServer(t *testing.T) (*httptest.Server, func()) {
	dir, err := ioutil.TempDir("", "msh_browser")
	if err != nil {
		t.Fatal(err)
	}

	cube := mshtest.Cube()
	for name, data := range map[string][]byte{
		"cube.msh":   cube,
		"broken.msh": cube[:len(cube)-5],
		"readme.txt": []byte("not a scene"),
	} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), data, 0666); err != nil {
			t.Fatal(err)
		}
	}

	server := httptest.NewServer(NewRouter(vfs.NewDirectoryDriver(dir)))
	return server, func() {
		server.Close()
		os.RemoveAll(dir)
	}
}

func get(t *testing.T, server *httptest.Server, url string) (*http.Response, []byte) {
	resp, err := http.Get(server.URL + url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHandlerList(t *testing.T) {
	server, cleanup := testServer(t)
	defer cleanup()

	_, body := get(t, server, "/json/list")
	var files []string
	if err := json.Unmarshal(body, &files); err != nil {
		t.Fatalf("%v: %s", err, body)
	}
	if len(files) != 2 || files[0] != "broken.msh" || files[1] != "cube.msh" {
		t.Errorf("files %v", files)
	}
}

func TestHandlerScene(t *testing.T) {
	server, cleanup := testServer(t)
	defer cleanup()

	resp, body := get(t, server, "/json/scene/cube.msh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}

	var scene struct {
		Models []struct {
			Name     string
			Geometry []struct {
				MaterialName string
				Triangles    [][3]uint16
			}
		}
		Materials map[string]struct {
			Name     string
			Specular [4]float32
			Flags    string
		}
	}
	if err := json.Unmarshal(body, &scene); err != nil {
		t.Fatalf("%v: %s", err, body)
	}
	if len(scene.Models) != 1 || scene.Models[0].Name != "Cube" || scene.Models[0].Geometry[0].MaterialName != "Red" {
		t.Errorf("unexpected models %+v", scene.Models)
	}
	if mat := scene.Materials["Material0"]; mat.Name != "Red" || mat.Specular != [4]float32{1, 0, 0, 1} || mat.Flags != "none" {
		t.Errorf("unexpected materials %+v", scene.Materials)
	}

	var errorTests = []struct {
		url  string
		code int
	}{
		{"/json/scene/broken.msh", http.StatusUnprocessableEntity},
		{"/json/scene/readme.txt", http.StatusUnprocessableEntity},
		{"/json/scene/missing.msh", http.StatusNotFound},
		{"/json/tree/missing.msh", http.StatusNotFound},
		{"/json/tree/readme.txt", http.StatusUnprocessableEntity},
		{"/export/cube.msh/blend", http.StatusBadRequest},
		{"/export/broken.msh/glb", http.StatusUnprocessableEntity},
	}
	for _, test := range errorTests {
		resp, body := get(t, server, test.url)
		if resp.StatusCode != test.code {
			t.Errorf("%s: status %d; expected %d", test.url, resp.StatusCode, test.code)
		}
		if !bytes.Contains(body, []byte(`"error"`)) {
			t.Errorf("%s: no error in body %s", test.url, body)
		}
	}
}

func TestHandlerTreeAndDump(t *testing.T) {
	server, cleanup := testServer(t)
	defer cleanup()

	_, body := get(t, server, "/json/tree/cube.msh")
	for _, expected := range []string{`"Tag":"HEDR"`, `"Tag":"MATD"`, `"Tag":"NDXT"`} {
		if !bytes.Contains(body, []byte(expected)) {
			t.Errorf("tree does not contain %s: %s", expected, body)
		}
	}

	_, body = get(t, server, "/dump/scene/cube.msh")
	for _, expected := range []string{"name: Cube", "name: Red", "materialname: Red"} {
		if !bytes.Contains(body, []byte(expected)) {
			t.Errorf("dump does not contain %q:\n%s", expected, body)
		}
	}
}

func TestHandlerExport(t *testing.T) {
	server, cleanup := testServer(t)
	defer cleanup()

	resp, body := get(t, server, "/export/cube.msh/glb")
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("glTF")) {
		t.Errorf("glb export status %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="cube.glb"`) {
		t.Errorf("glb Content-Disposition %q", cd)
	}

	resp, body = get(t, server, "/export/cube.msh/obj")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("obj export status %d: %s", resp.StatusCode, body)
	}
	z, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range z.File {
		names[f.Name] = true
	}
	if !names["cube.obj"] || !names["cube.mtl"] {
		t.Errorf("obj zip files %v", names)
	}
}
