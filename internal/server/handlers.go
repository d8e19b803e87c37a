package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/gedquiz/internal/generator"
	"github.com/abhisek/gedquiz/internal/quiz"
)

// stateView is the JSON shape of a session snapshot. The correct index is
// withheld until the question has been answered or has expired.
type stateView struct {
	quiz.State
	Question *questionView `json:"currentQuestion"`
}

type questionView struct {
	Text               string               `json:"question"`
	Options            []string             `json:"options"`
	CorrectAnswerIndex *int                 `json:"correctAnswerIndex,omitempty"`
	Difficulty         generator.Difficulty `json:"difficulty,omitempty"`
}

func newStateView(st quiz.State) stateView {
	v := stateView{State: st}
	if q := st.Question; q != nil {
		v.Question = &questionView{Text: q.Text, Options: q.Options, Difficulty: q.Difficulty}
		if st.IsAnswered {
			idx := q.CorrectIndex
			v.Question.CorrectAnswerIndex = &idx
		}
	}
	return v
}

func (s *Server) state() stateView {
	return newStateView(s.session.Snapshot())
}

type difficultyRequest struct {
	Level string `json:"level" binding:"required"`
}

type answerRequest struct {
	Index *int `json:"index" binding:"required,min=0,max=3"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleStart(c *gin.Context) {
	s.session.Start()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleDifficulty(c *gin.Context) {
	var req difficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: bindMessage(err)})
		return
	}
	level, err := generator.ParseDifficulty(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.session.SwitchDifficulty(level); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleNext(c *gin.Context) {
	if !s.session.Snapshot().CanAdvance() {
		c.JSON(http.StatusConflict, errorResponse{Error: "the current question has not been answered"})
		return
	}
	s.session.FetchNextQuestion()
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleRetry(c *gin.Context) {
	if !s.session.Retry() {
		c.JSON(http.StatusConflict, errorResponse{Error: "nothing to retry"})
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: bindMessage(err)})
		return
	}
	if !s.session.SelectAnswer(*req.Index) {
		c.JSON(http.StatusConflict, errorResponse{Error: "no question is awaiting an answer"})
		return
	}
	c.JSON(http.StatusOK, s.state())
}
