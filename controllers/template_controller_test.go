package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockk_backend/repository"
)

func newTemplateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	drawingController := NewDrawingTemplateController(repository.NewDrawingTemplateRepository(db), zap.NewNop())
	studyController := NewStudyTemplateController(repository.NewStudyTemplateRepository(db), zap.NewNop())

	router := gin.New()
	router.POST("/api/v0/drawing_templates", drawingController.SaveTemplate)
	router.GET("/api/v0/drawing_templates", drawingController.GetTemplates)
	router.DELETE("/api/v0/drawing_templates", drawingController.DeleteTemplate)
	router.POST("/api/v0/study_templates", studyController.SaveTemplate)
	router.GET("/api/v0/study_templates", studyController.GetTemplates)
	router.DELETE("/api/v0/study_templates", studyController.DeleteTemplate)
	return router
}

func do(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDrawingTemplateController_SaveIsUpsert(t *testing.T) {
	router := newTemplateRouter(t)
	target := "/api/v0/drawing_templates?client=tv&user=user-1&name=arrows&tool=trend_line"

	w := do(router, http.MethodPost, target, []byte(`{"color":"red"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	// Saving the same name again replaces the content
	w = do(router, http.MethodPost, target, []byte(`{"color":"blue"}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var single struct {
		Data struct {
			Name    string          `json:"name"`
			Content json.RawMessage `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &single))
	assert.Equal(t, "arrows", single.Data.Name)
	assert.JSONEq(t, `{"color":"blue"}`, string(single.Data.Content))
}

func TestDrawingTemplateController_ListNamesByTool(t *testing.T) {
	router := newTemplateRouter(t)

	for _, fixture := range []struct{ name, tool string }{
		{"arrows", "trend_line"},
		{"channels", "trend_line"},
		{"fib", "fib_retracement"},
	} {
		w := do(router, http.MethodPost,
			"/api/v0/drawing_templates?client=tv&user=user-1&name="+fixture.name+"&tool="+fixture.tool,
			[]byte(`{}`))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(router, http.MethodGet, "/api/v0/drawing_templates?client=tv&user=user-1&tool=trend_line", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.ElementsMatch(t, []string{"arrows", "channels"}, list.Data)
}

func TestDrawingTemplateController_Delete(t *testing.T) {
	router := newTemplateRouter(t)

	w := do(router, http.MethodPost,
		"/api/v0/drawing_templates?client=tv&user=user-1&name=arrows&tool=trend_line", []byte(`{}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodDelete, "/api/v0/drawing_templates?client=tv&user=user-1&name=arrows", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(router, http.MethodDelete, "/api/v0/drawing_templates?client=tv&user=user-1&name=arrows", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudyTemplateController_SaveIsUpsert(t *testing.T) {
	router := newTemplateRouter(t)
	target := "/api/v0/study_templates?client=tv&user=user-1"

	w := do(router, http.MethodPost, target,
		[]byte(`{"name":"rsi+macd","content":{"studies":["rsi"]}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodPost, target,
		[]byte(`{"name":"rsi+macd","content":{"studies":["rsi","macd"]}}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, target+"&template=rsi%2Bmacd", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var single struct {
		Data struct {
			Content json.RawMessage `json:"content"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &single))
	assert.JSONEq(t, `{"studies":["rsi","macd"]}`, string(single.Data.Content))
}

func TestStudyTemplateController_ListAndMissing(t *testing.T) {
	router := newTemplateRouter(t)
	target := "/api/v0/study_templates?client=tv&user=user-1"

	w := do(router, http.MethodPost, target, []byte(`{"name":"one","content":{}}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "one", list.Data[0]["name"])

	w = do(router, http.MethodGet, target+"&template=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing body field is a validation failure
	w = do(router, http.MethodPost, target, []byte(`{"content":{}}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
