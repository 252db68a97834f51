package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ByLCY/manosaba/bot"
	"github.com/ByLCY/manosaba/layout"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/model"
)

// respondJSON 发送JSON响应
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.L().Warn("failed to encode response", zap.Error(err))
	}
}

// respondError 发送错误响应
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondPNG 发送图片响应
func respondPNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.L().Warn("failed to write image", zap.Error(err))
	}
}

// respondFailure 按错误类型选择状态码，内部错误只返回通用文案。
func respondFailure(ctx context.Context, w http.ResponseWriter, what string, err error) {
	respondError(w, statusFor(err), bot.UserMessage(ctx, what, err))
}

func statusFor(err error) int {
	switch {
	case model.IsValidation(err), errors.Is(err, layout.ErrCountOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

const maxBodyBytes = 64 << 10

// decodeJSON 读取请求体，超过 maxBodyBytes 或格式错误时返回 false 并写入 400。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
