package handlers

import (
	"net/http"

	"github.com/tubestudio/backend/internal/logging"
)

// ChannelHandler exposes details about the authorized channel.
type ChannelHandler struct {
	Clients  ClientFactory
	Channels ChannelAPI
}

// Info handles GET /api/channel.
func (h ChannelHandler) Info(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Clients == nil || h.Channels == nil {
		logger.Error("channel dependencies unavailable", "hasClients", h.Clients != nil, "hasChannels", h.Channels != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "channel service unavailable"})
		return
	}

	svc, err := h.Clients.NewService(ctx)
	if err != nil {
		logger.Warn("channel lookup rejected", "error", err)
		writeError(ctx, w, err)
		return
	}

	channel, err := h.Channels.Info(ctx, svc)
	if err != nil {
		logger.Error("fetch channel info", "error", err)
		writeError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, channel)
}
