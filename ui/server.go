package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/dhamidi/devtext/dispatch"
	"github.com/tliron/commonlog"
)

//go:embed static templates
var embeddedFS embed.FS

// maxInput bounds request bodies and form fields.
const maxInput = 10 << 20

var log = commonlog.GetLogger("devtext.ui")

// Server exposes the transforms over HTTP: an HTML page at / and a JSON API
// under /api/.
type Server struct {
	dispatcher *dispatch.Dispatcher
	indent     string
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer(d *dispatch.Dispatcher, indent string) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"kindGroup": func(k dispatch.Kind) string {
			_, group, _ := strings.Cut(string(k), "-")
			return group
		},
	}

	// Parse once up front so a broken template fails at startup.
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		dispatcher: d,
		indent:     indent,
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /api/kinds", s.handleKinds)
	s.mux.HandleFunc("POST /api/{kind}", s.handleTask)
	s.mux.HandleFunc("POST /{$}", s.handleForm)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

// run sends one task through the dispatcher and maps the outcome to an HTTP
// status. A response with Success false is still a 200: the task ran.
func (s *Server) run(ctx context.Context, kind dispatch.Kind, data string) (dispatch.Response, int) {
	resp, err := s.dispatcher.Send(ctx, dispatch.Request{
		Kind:   kind,
		Data:   data,
		Indent: s.indent,
	})
	switch {
	case err == nil:
		return resp, http.StatusOK
	case dispatch.IsTimeout(err):
		return failed(resp.ID, err), http.StatusGatewayTimeout
	case dispatch.IsFault(err):
		return failed(resp.ID, err), http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return failed(resp.ID, err), http.StatusServiceUnavailable
	default:
		return failed(resp.ID, err), http.StatusInternalServerError
	}
}

func failed(id string, err error) dispatch.Response {
	return dispatch.Response{ID: id, Success: false, Error: err.Error()}
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dispatch.Kinds())
}

// handleTask accepts either a raw text body or, with a JSON content type,
// {"data": "..."}.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	kind, err := dispatch.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failed("", err))
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxInput)
	var data string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Data string `json:"data"`
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, failed("", fmt.Errorf("invalid JSON: %w", err)))
			return
		}
		data = req.Data
	} else {
		raw, err := io.ReadAll(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, failed("", fmt.Errorf("read body: %w", err)))
			return
		}
		data = string(raw)
	}

	resp, status := s.run(r.Context(), kind, data)
	log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, status, resp.ID)
	writeJSON(w, status, resp)
}

type pageData struct {
	Kinds  []dispatch.Kind
	Kind   dispatch.Kind
	Input  string
	Output string
	Error  string
	Ran    bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", pageData{
		Kinds: dispatch.Kinds(),
		Kind:  dispatch.KindBeautifyCode,
	})
}

// handleForm serves the page without JavaScript: the form posts here and
// the result is rendered in place.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInput)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{
		Kinds: dispatch.Kinds(),
		Input: r.FormValue("input"),
		Ran:   true,
	}
	kind, err := dispatch.ParseKind(r.FormValue("kind"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		data.Error = err.Error()
		s.render(w, "index.html", data)
		return
	}
	data.Kind = kind

	resp, status := s.run(r.Context(), kind, data.Input)
	switch {
	case !resp.Success:
		data.Error = resp.Error
	default:
		data.Output = displayResult(resp.Result)
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	s.render(w, "index.html", data)
}

// displayResult shows string results verbatim and anything else as
// indented JSON.
func displayResult(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %s", err)
	}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files under primaryPath on disk, so templates can be
// edited without rebuilding.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
