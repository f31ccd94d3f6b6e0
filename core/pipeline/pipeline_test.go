package pipeline_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webroot/core/handler"
	"github.com/dmitrymomot/webroot/core/pipeline"
)

func textStage(path, body string) handler.Stage {
	return handler.StageFunc(func(r *http.Request) (handler.Response, bool) {
		if r.URL.Path != path {
			return nil, false
		}
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := w.Write([]byte(body))
			return err
		}, true
	})
}

func TestPipelineDispatch(t *testing.T) {
	t.Parallel()

	p := pipeline.New(pipeline.WithStages(
		textStage("/a", "first"),
		textStage("/a", "shadowed"),
		textStage("/b", "second"),
	))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"first_stage_wins", "/a", http.StatusOK, "first"},
		{"later_stage_handles", "/b", http.StatusOK, "second"},
		{"all_decline_falls_back_to_404", "/c", http.StatusNotFound, "404 page not found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestPipelineCustomFallback(t *testing.T) {
	t.Parallel()

	p := pipeline.New(pipeline.WithFallback(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})))

	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()

	failing := func(writeFirst bool) handler.Stage {
		return handler.StageFunc(func(r *http.Request) (handler.Response, bool) {
			return func(w http.ResponseWriter, r *http.Request) error {
				if writeFirst {
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte("partial"))
				}
				return errors.New("disk on fire")
			}, true
		})
	}

	t.Run("before_headers_yields_500", func(t *testing.T) {
		t.Parallel()
		p := pipeline.New(pipeline.WithStages(failing(false)))
		w := httptest.NewRecorder()
		p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("after_headers_aborts", func(t *testing.T) {
		t.Parallel()
		p := pipeline.New(pipeline.WithStages(failing(true)))
		w := httptest.NewRecorder()
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})

	t.Run("custom_error_handler", func(t *testing.T) {
		t.Parallel()
		var got error
		p := pipeline.New(
			pipeline.WithStages(failing(false)),
			pipeline.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusServiceUnavailable)
			}),
		)
		w := httptest.NewRecorder()
		p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Error(t, got)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestPipelineStagesCopy(t *testing.T) {
	t.Parallel()

	p := pipeline.New(pipeline.WithStages(textStage("/a", "a"), nil))
	stages := p.Stages()
	require.Len(t, stages, 1)

	stages[0] = nil
	assert.NotNil(t, p.Stages()[0])
}

func TestHeadersWritten(t *testing.T) {
	t.Parallel()
	assert.False(t, pipeline.HeadersWritten(httptest.NewRecorder()))
}
