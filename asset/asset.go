// Package asset loads 3D models from disk or over HTTP into scene nodes.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/ansipixels/showcase/scene"
)

// ErrUnsupported is returned for file extensions no loader handles.
var ErrUnsupported = errors.New("unsupported model format")

// LoadError is the single error kind of a failed load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is what LoadAsync delivers.
type Result struct {
	Node *scene.Node
	Err  error
}

// Loader reads models. The zero value is usable.
type Loader struct {
	// Client fetches http and https paths. nil means http.DefaultClient.
	Client *http.Client
	// SmoothNormals averages STL facet normals per vertex.
	SmoothNormals bool
}

// DefaultLoader is used by Load and LoadAsync.
var DefaultLoader = &Loader{}

// Load reads path with DefaultLoader.
func Load(ctx context.Context, path string) (*scene.Node, error) {
	return DefaultLoader.Load(ctx, path)
}

// LoadAsync runs Load in its own goroutine and delivers exactly one Result.
func LoadAsync(ctx context.Context, path string) <-chan Result {
	return DefaultLoader.LoadAsync(ctx, path)
}

// LoadAsync is the asynchronous form of Load.
func (l *Loader) LoadAsync(ctx context.Context, path string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		n, err := l.Load(ctx, path)
		ch <- Result{Node: n, Err: err}
	}()
	return ch
}

// Load reads a .glb, .gltf or .stl model from a file or an http(s) URL.
// The returned node is neither scaled nor centered. Every failure is a
// *LoadError. There is no retry.
func (l *Loader) Load(ctx context.Context, p string) (*scene.Node, error) {
	n, err := l.load(ctx, p)
	if err != nil {
		return nil, &LoadError{Path: p, Err: err}
	}
	return n, nil
}

func (l *Loader) load(ctx context.Context, p string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := newSource(p, l.client())
	if err != nil {
		return nil, err
	}
	var n *scene.Node
	switch ext := src.ext(); ext {
	case ".glb", ".gltf":
		n, err = l.loadGLTF(ctx, src)
	case ".stl":
		n, err = l.loadSTL(ctx, src)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}
	st := n.Stats()
	log.Debugf("Loaded %s: %d nodes, %d vertices, %d triangles, %d materials",
		p, st.Nodes, st.Vertices, st.Triangles, st.Materials)
	return n, nil
}

func (l *Loader) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

// source is where a model and the resources it references come from.
type source struct {
	path   string
	remote *url.URL // nil for local files
	client *http.Client
}

func newSource(p string, client *http.Client) (*source, error) {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		u, err := url.Parse(p)
		if err != nil {
			return nil, err
		}
		return &source{path: p, remote: u, client: client}, nil
	}
	return &source{path: p}, nil
}

func (s *source) ext() string {
	if s.remote != nil {
		return strings.ToLower(path.Ext(s.remote.Path))
	}
	return strings.ToLower(filepath.Ext(s.path))
}

func (s *source) name() string {
	if s.remote != nil {
		return path.Base(s.remote.Path)
	}
	return filepath.Base(s.path)
}

// read returns the bytes of the model itself.
func (s *source) read(ctx context.Context) ([]byte, error) {
	return s.readRelative(ctx, "")
}

// readRelative returns the bytes of a resource referenced by the model,
// resolved against the model's location. An empty ref is the model.
func (s *source) readRelative(ctx context.Context, ref string) ([]byte, error) {
	if s.remote == nil {
		p := s.path
		if ref != "" {
			p = filepath.Join(filepath.Dir(s.path), filepath.FromSlash(ref))
		}
		return os.ReadFile(p)
	}
	u := s.remote
	if ref != "" {
		r, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		u = s.remote.ResolveReference(r)
	}
	return fetch(ctx, s.client, u.String())
}

func fetch(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	return data, nil
}
