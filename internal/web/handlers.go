package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/promptarchitect/internal/form"
)

// stateResponse is the JSON body of every /api call.
type stateResponse struct {
	form.FormState
	Phase     form.Phase `json:"phase"`
	CanSubmit bool       `json:"can_submit"`
	CopyLabel string     `json:"copy_label"`
}

func newStateResponse(s form.FormState) stateResponse {
	return stateResponse{
		FormState: s,
		Phase:     s.Phase(),
		CanSubmit: s.CanSubmit(),
		CopyLabel: s.CopyButtonLabel(),
	}
}

type textRequest struct {
	Text *string `json:"text" binding:"required"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"State":       newStateResponse(controllerFrom(c).State()),
		"CopyResetMs": s.opts.CopyReset.Milliseconds(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, newStateResponse(controllerFrom(c).State()))
}

func (s *Server) handleIdea(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected JSON body with a text field"})
		return
	}
	c.JSON(http.StatusOK, newStateResponse(controllerFrom(c).UpdateIdea(*req.Text)))
}

func (s *Server) handleContext(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected JSON body with a text field"})
		return
	}
	c.JSON(http.StatusOK, newStateResponse(controllerFrom(c).UpdateContext(*req.Text)))
}

// submitRequest carries the fields as the page shows them at submit time.
// Absent fields keep the stored value.
type submitRequest struct {
	Idea    *string `json:"idea"`
	Context *string `json:"context"`
}

// handleSubmit starts an enhancement and answers 202 while it runs. With
// ?wait=true it answers once the request has finished. A submit that cannot
// start (blank idea, or one already pending) returns the unchanged state.
func (s *Server) handleSubmit(c *gin.Context) {
	ctrl := controllerFrom(c)
	if c.Request.ContentLength != 0 {
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expected JSON body with idea and context fields"})
			return
		}
		if req.Context != nil {
			ctrl.UpdateContext(*req.Context)
		}
		if req.Idea != nil {
			ctrl.UpdateIdea(*req.Idea)
		}
	}
	// The enhancement outlives this request unless the caller waits for it.
	done, ok := ctrl.Start(context.WithoutCancel(c.Request.Context()))
	if !ok {
		log.Debug().Msg("Submit ignored by form")
		c.JSON(http.StatusOK, newStateResponse(ctrl.State()))
		return
	}
	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, newStateResponse(ctrl.State()))
		return
	}
	select {
	case <-done:
	case <-c.Request.Context().Done():
		return
	}
	c.JSON(http.StatusOK, newStateResponse(ctrl.State()))
}

// handleCopy records a copy the browser already performed.
func (s *Server) handleCopy(c *gin.Context) {
	ctrl := controllerFrom(c)
	if !ctrl.CopyResult() {
		c.JSON(http.StatusConflict, newStateResponse(ctrl.State()))
		return
	}
	c.JSON(http.StatusOK, newStateResponse(ctrl.State()))
}
