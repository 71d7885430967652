package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/stowage/pkg/annotate"
	"github.com/matzehuels/stowage/pkg/buildinfo"
	"github.com/matzehuels/stowage/pkg/diag"
	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/render/preview"
	"github.com/matzehuels/stowage/pkg/scene"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
)

// =============================================================================
// Responses
// =============================================================================

type healthResponse struct {
	Status string         `json:"status" msgpack:"status"`
	Build  buildinfo.Info `json:"build" msgpack:"build"`
}

type layoutResponse struct {
	RequestHash string        `json:"request_hash" msgpack:"request_hash"`
	CacheHit    bool          `json:"cache_hit" msgpack:"cache_hit"`
	Coerced     []string      `json:"coerced,omitempty" msgpack:"coerced,omitempty"`
	Layout      layout.Layout `json:"layout" msgpack:"layout"`
}

type scaleRequest struct {
	Container any `json:"container" yaml:"container" toml:"container" msgpack:"container"`
}

type scaleResponse struct {
	Container   scene.Container       `json:"container" msgpack:"container"`
	Scale       scene.ScaleParams     `json:"scale" msgpack:"scale"`
	Annotations []annotate.Annotation `json:"annotations" msgpack:"annotations"`
	Coerced     []string              `json:"coerced,omitempty" msgpack:"coerced,omitempty"`
}

type overlapsResponse struct {
	Strategy string       `json:"strategy" msgpack:"strategy"`
	Overlaps []diag.Pair  `json:"overlaps" msgpack:"overlaps"`
	Stats    layout.Stats `json:"stats" msgpack:"stats"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), req, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, layoutResponse{
		RequestHash: res.RequestHash,
		CacheHit:    res.CacheHit,
		Coerced:     notes(res.Coerced),
		Layout:      res.Layout,
	})
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body scaleRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	c, cerr := scene.NormalizeContainer(body.Container)
	sp := scene.ComputeScale(c)
	respond(w, r, http.StatusOK, scaleResponse{
		Container:   c,
		Scale:       sp,
		Annotations: annotate.Compute(c, sp, opts.AnnotateOptions()...),
		Coerced:     notes(cerr),
	})
}

func (s *Server) handleOverlaps(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.SkipOverlaps = false
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), req, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pairs := res.Layout.Overlaps
	if pairs == nil {
		pairs = []diag.Pair{}
	}
	respond(w, r, http.StatusOK, overlapsResponse{
		Strategy: res.Layout.Strategy,
		Overlaps: pairs,
		Stats:    res.Layout.Stats,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.layoutOptions(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := previewOptions(q, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Layout(r.Context(), req, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, _, err := s.runner.Preview(r.Context(), res.Layout, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", preview.ContentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// =============================================================================
// Options
// =============================================================================

// layoutOptions applies query parameters over the server defaults.
func (s *Server) layoutOptions(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	if opts.Gap != nil {
		g := *opts.Gap
		opts.Gap = &g
	}
	opts.Logger = nil

	if v := q.Get("unit"); v != "" {
		opts.Unit = v
	}
	if v := q.Get("offset"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, errBadRequest("invalid offset: %q", v)
		}
		opts.Offset = f
	}
	if v := q.Get("gap"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, errBadRequest("invalid gap: %q", v)
		}
		opts.Gap = &f
	}
	if v := q.Get("max_instances"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errBadRequest("invalid max_instances: %q", v)
		}
		if n > s.maxInstances {
			return opts, errBadRequest("max_instances %d exceeds the server limit of %d", n, s.maxInstances)
		}
		opts.MaxInstances = n
	}
	var err error
	if opts.SkipOverlaps, err = boolParam(q, "skip_overlaps", opts.SkipOverlaps); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh", false); err != nil {
		return opts, err
	}
	return opts, nil
}

func previewOptions(q url.Values, opts *pipeline.Options) error {
	if v := q.Get("format"); v != "" {
		if err := pipeline.ValidatePreviewFormat(v); err != nil {
			return errBadRequest("%v", err)
		}
		opts.Format = v
	}
	for name, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > preview.MaxSize {
				return errBadRequest("invalid %s: %q", name, v)
			}
			*dst = n
		}
	}
	var err error
	opts.Labels, err = boolParam(q, "labels", opts.Labels)
	return err
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errBadRequest("invalid %s: %q", name, v)
	}
	return b, nil
}

// =============================================================================
// Encoding
// =============================================================================

// requestFormat maps a Content-Type to a request decoder.
func requestFormat(r *http.Request) (layout.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return layout.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.New(errors.ErrCodeUnsupported, "malformed content type %q", ct)
	}
	switch mt {
	case contentTypeJSON, "text/json":
		return layout.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return layout.FormatYAML, nil
	case "application/toml":
		return layout.FormatTOML, nil
	case contentTypeMsgpack, "application/x-msgpack", "application/vnd.msgpack":
		return layout.FormatMsgpack, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mt)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (layout.Request, error) {
	format, err := requestFormat(r)
	if err != nil {
		return layout.Request{}, err
	}
	return layout.ReadRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
}

// decodeBody decodes small bodies that are not layout requests.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	format, err := requestFormat(r)
	if err != nil {
		return err
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	switch format {
	case layout.FormatMsgpack:
		err = msgpack.NewDecoder(body).Decode(v)
	case layout.FormatJSON:
		dec := json.NewDecoder(body)
		dec.UseNumber()
		err = dec.Decode(v)
	default:
		return errors.New(errors.ErrCodeUnsupported, "%s bodies are only accepted for layout requests", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode %s body", format)
	}
	return nil
}

// wantsMsgpack reports whether the client asked for msgpack responses.
func wantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mt == contentTypeMsgpack || mt == "application/x-msgpack" || mt == "application/vnd.msgpack") {
			return true
		}
	}
	return false
}

// respond writes v as msgpack or JSON depending on the Accept header.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	var (
		data []byte
		err  error
		ct   = contentTypeJSON
	)
	if wantsMsgpack(r) {
		ct = contentTypeMsgpack
		data, err = msgpack.Marshal(v)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// notes splits a coercion error into one line per note.
func notes(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
