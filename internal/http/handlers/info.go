package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/avatar-backend/internal/http/response"
)

type InfoHandler struct {
	name    string
	version string
	codec   string
}

func NewInfoHandler(name, version, codec string) *InfoHandler {
	return &InfoHandler{name: name, version: version, codec: codec}
}

type infoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	KeyCodec  string            `json:"key_codec,omitempty"`
	Endpoints map[string]string `json:"endpoints"`
}

// GET /
func (h *InfoHandler) Root(c *gin.Context) {
	response.RespondOK(c, infoResponse{
		Message:  h.name,
		Version:  h.version,
		KeyCodec: h.codec,
		Endpoints: map[string]string{
			"options":    "/options",
			"generate":   "/avatar/generate",
			"get_avatar": "/avatar/{key}",
			"get_svg":    "/avatar/{key}/svg",
			"random":     "/avatar/random",
		},
	})
}
