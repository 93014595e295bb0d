package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FlotaEquipos/FlotaEquipos/internal/common/storage"
)

// WriteJSON 输出 JSON 响应。
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteErrorMessage 输出 {"error": "..."} 形式的错误响应。
func WriteErrorMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteStoreError 把存储层错误分类映射成 HTTP 状态：
// - ErrNotFound -> 404
// - ConstraintViolationError -> 409
// - ReferentialIntegrityError -> 400（含依赖行数）
// - 其余（基础设施错误）-> 500
func WriteStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		WriteErrorMessage(w, http.StatusNotFound, "not found")
		return
	}

	var conflict *storage.ConstraintViolationError
	if errors.As(err, &conflict) {
		WriteErrorMessage(w, http.StatusConflict, conflict.Error())
		return
	}

	var ref *storage.ReferentialIntegrityError
	if errors.As(err, &ref) {
		WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":        ref.Error(),
			"dependientes": ref.Dependientes,
		})
		return
	}

	WriteErrorMessage(w, http.StatusInternalServerError, "internal error")
}
