package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ByLCY/manosaba/bot"
	"github.com/ByLCY/manosaba/logging"
	"github.com/ByLCY/manosaba/model"
)

type signRequest struct {
	Text string `json:"text"`
	Face string `json:"face"`
}

type optionRequest struct {
	Kind string `json:"kind"`
	Arg  string `json:"arg,omitempty"`
	Text string `json:"text"`
}

type trialRequest struct {
	SessionID string          `json:"sessionId"`
	Options   []optionRequest `json:"options"`
}

type characterRequest struct {
	Name string `json:"name"`
}

type characterResponse struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
}

type messageRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type replyPayload struct {
	Type  bot.ReplyKind `json:"type"`
	Text  string        `json:"text,omitempty"`
	Image []byte        `json:"image,omitempty"` // base64
}

type messageResponse struct {
	Handled bool           `json:"handled"`
	Replies []replyPayload `json:"replies"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"workers": h.pool.Size(),
	})
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	face := strings.TrimSpace(req.Face)
	if face != "" {
		if err := model.CheckFace(face); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	img, err := h.pool.Do(r.Context(), "sign", func() ([]byte, error) {
		return h.memes.RenderSign(req.Text, face)
	})
	if err != nil {
		respondFailure(r.Context(), w, "生成安安举牌图失败", err)
		return
	}
	respondPNG(w, img)
}

func (h *Handler) handleTrial(w http.ResponseWriter, r *http.Request) {
	var req trialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	options := make([]model.Option, 0, len(req.Options))
	for i, o := range req.Options {
		st, err := model.ResolveStatement(o.Kind, o.Arg)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("第 %d 个选项：%v", i+1, err))
			return
		}
		opt, err := model.NewOption(st, o.Text)
		if err != nil {
			respondFailure(r.Context(), w, "构造选项失败", fmt.Errorf("第 %d 个选项：%w", i+1, err))
			return
		}
		options = append(options, opt)
	}

	ctx := logging.WithSession(r.Context(), req.SessionID)
	c := h.prefs.Get(req.SessionID)
	img, err := h.pool.Do(ctx, "trial", func() ([]byte, error) {
		return h.memes.RenderTrial(c, options)
	})
	if err != nil {
		respondFailure(ctx, w, "生成审判图失败", err)
		return
	}
	respondPNG(w, img)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.prefs.Snapshot())
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	respondJSON(w, http.StatusOK, newCharacterResponse(sessionID, h.prefs.Get(sessionID)))
}

func (h *Handler) handlePutCharacter(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var req characterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := model.ResolveCharacter(req.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.prefs.Set(sessionID, c); err != nil {
		respondFailure(r.Context(), w, "切换角色失败", err)
		return
	}
	respondJSON(w, http.StatusOK, newCharacterResponse(sessionID, c))
}

func newCharacterResponse(sessionID string, c model.Character) characterResponse {
	return characterResponse{SessionID: sessionID, Name: c.DisplayName(), Code: c.Code()}
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	replies, handled := h.bot.Handle(r.Context(), req.SessionID, req.Text)
	resp := messageResponse{Handled: handled, Replies: make([]replyPayload, 0, len(replies))}
	for _, reply := range replies {
		resp.Replies = append(resp.Replies, replyPayload{Type: reply.Kind, Text: reply.Text, Image: reply.Image})
	}
	respondJSON(w, http.StatusOK, resp)
}
