package controllers

import (
	"log"

	"crowdfund/backend/models"
	"crowdfund/backend/query"
	"crowdfund/backend/services"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type IdeaController struct {
	Ideas  *services.IdeaService
	Logger *log.Logger
}

func NewIdeaController(ideas *services.IdeaService, logger *log.Logger) *IdeaController {
	return &IdeaController{Ideas: ideas, Logger: logger}
}

type RateIdeaRequest struct {
	IdeaID string `json:"ideaId"`
	Rate   int    `json:"rate" minimum:"0" maximum:"5"`
}

type IdeaCommentRequest struct {
	IdeaID    string `json:"ideaId"`
	Text      string `json:"text,omitempty" maxLength:"500"`
	CommentID string `json:"commentId,omitempty"`
}

type InvestRequest struct {
	IdeaID string  `json:"ideaId"`
	Amount float64 `json:"amount"`
}

type ideaListResponse struct {
	Ideas      []*models.Idea `json:"ideas"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

type ideaSearchResponse struct {
	Results []services.IdeaSearchResult `json:"results"`
	Total   int                         `json:"total"`
	Limit   int                         `json:"limit"`
}

// Start godoc
// @Summary Start a new idea
// @Tags ideas
// @Accept json
// @Produce json
// @Param idea body models.IdeaDraft true "Idea draft"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /idea/start [post]
func (ic *IdeaController) Start(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	var draft models.IdeaDraft
	if err := parseBody(c, &draft); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	id, err := ic.Ideas.Start(c.UserContext(), caller, draft)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return utils.Created(c, id)
}

// Rate godoc
// @Summary Rate an idea
// @Tags ideas
// @Accept json
// @Produce json
// @Param input body RateIdeaRequest true "Rating"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /idea/rate [post]
func (ic *IdeaController) Rate(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	var input RateIdeaRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(input.IdeaID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	if err := ic.Ideas.Rate(c.UserContext(), caller, ideaID, input.Rate); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return utils.OK(c)
}

func (ic *IdeaController) AddComment(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	var input IdeaCommentRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(input.IdeaID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	comment, err := ic.Ideas.AddComment(c.UserContext(), caller, ideaID, input.Text)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return c.JSON(comment)
}

func (ic *IdeaController) DeleteComment(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	var input IdeaCommentRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(input.IdeaID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	commentID, err := parseID(input.CommentID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	if err := ic.Ideas.DeleteComment(c.UserContext(), caller, ideaID, commentID); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return utils.OK(c)
}

// Invest godoc
// @Summary Invest into an idea
// @Description Adds the amount to the idea's collected total and returns the new total
// @Tags ideas
// @Accept json
// @Produce json
// @Param input body InvestRequest true "Investment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /idea/invest [post]
func (ic *IdeaController) Invest(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	var input InvestRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(input.IdeaID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	total, err := ic.Ideas.Invest(c.UserContext(), caller, ideaID, input.Amount)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return c.JSON(fiber.Map{"alreadyCollected": total})
}

func (ic *IdeaController) Get(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	view, err := ic.Ideas.Get(c.UserContext(), caller, ideaID)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return c.JSON(view)
}

func (ic *IdeaController) Close(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	ideaID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	if err := ic.Ideas.Close(c.UserContext(), caller, ideaID); err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return utils.OK(c)
}

// GetSorted godoc
// @Summary List open ideas
// @Tags ideas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sortBy query string false "createdAt|name|targetAmount|alreadyCollected|fundingDeadline" default(createdAt)
// @Param sortOrder query string false "asc|desc" default(desc)
// @Success 200 {object} ideaListResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /idea/get/sorted [get]
func (ic *IdeaController) GetSorted(c *fiber.Ctx) error {
	page, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	sort, err := query.ParseIdeaSort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	res, err := ic.Ideas.ListSorted(c.UserContext(), sort, page)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return c.JSON(ideaListResponse{
		Ideas:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Search godoc
// @Summary Search open ideas by name
// @Tags ideas
// @Produce json
// @Param query query string true "Case-insensitive name fragment"
// @Param limit query int false "Max results" default(10)
// @Success 200 {object} ideaSearchResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /idea/search [get]
func (ic *IdeaController) Search(c *fiber.Ctx) error {
	search, err := query.ParseSearch(c.Query("query"), c.Query("limit"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	sort, err := query.ParseIdeaSort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}

	results, err := ic.Ideas.Search(c.UserContext(), search, sort)
	if err != nil {
		return utils.Fail(c, ic.Logger, err)
	}
	return c.JSON(ideaSearchResponse{Results: results, Total: len(results), Limit: search.Limit})
}
