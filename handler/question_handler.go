package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/types"
)

// QuestionHandler serves the read-only question bank loaded at startup.
type QuestionHandler struct {
	bank *config.QuestionBank
}

func NewQuestionHandler(bank *config.QuestionBank) *QuestionHandler {
	return &QuestionHandler{
		bank: bank,
	}
}

func (h *QuestionHandler) HandleListQuestions(c *gin.Context) {
	module := c.Query("module")
	unit := c.Query("unit")
	if module == "" || unit == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "module and unit query parameters are required",
		})
		return
	}

	questions, ok := h.bank.Questions(module, unit)
	if !ok {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  "error",
			Message: "no questions for the given module and unit",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   questions,
	})
}
