package controllers

import (
	"log"

	"crowdfund/backend/models"
	"crowdfund/backend/query"
	"crowdfund/backend/services"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ForumController struct {
	Forums *services.ForumService
	Logger *log.Logger
}

func NewForumController(forums *services.ForumService, logger *log.Logger) *ForumController {
	return &ForumController{Forums: forums, Logger: logger}
}

type ForumCommentRequest struct {
	ForumID   string `json:"forumId"`
	Text      string `json:"text,omitempty" maxLength:"500"`
	CommentID string `json:"commentId,omitempty"`
	IsHelpful bool   `json:"isHelpful,omitempty"`
}

type forumListResponse struct {
	Forums     []*models.Forum `json:"forums"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

type forumSearchResponse struct {
	Results []services.ForumSearchResult `json:"results"`
	Total   int                          `json:"total"`
	Limit   int                          `json:"limit"`
}

// Create godoc
// @Summary Create a forum question
// @Tags forums
// @Accept json
// @Produce json
// @Param forum body models.ForumDraft true "Forum draft"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /forum/create [post]
func (fc *ForumController) Create(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	var draft models.ForumDraft
	if err := parseBody(c, &draft); err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	id, err := fc.Forums.Create(c.UserContext(), caller, draft)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return utils.Created(c, id)
}

// commentTarget parses the caller and the forum (and optionally comment) ids of a comment request.
func (fc *ForumController) commentTarget(c *fiber.Ctx, needComment bool) (services.Caller, ForumCommentRequest, error) {
	caller, err := callerOf(c)
	if err != nil {
		return services.Caller{}, ForumCommentRequest{}, err
	}
	var input ForumCommentRequest
	if err := parseBody(c, &input); err != nil {
		return services.Caller{}, ForumCommentRequest{}, err
	}
	if input.ForumID, err = parseID(input.ForumID); err != nil {
		return services.Caller{}, ForumCommentRequest{}, err
	}
	if needComment {
		if input.CommentID, err = parseID(input.CommentID); err != nil {
			return services.Caller{}, ForumCommentRequest{}, err
		}
	}
	return caller, input, nil
}

func (fc *ForumController) AddComment(c *fiber.Ctx) error {
	caller, input, err := fc.commentTarget(c, false)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	comment, err := fc.Forums.AddComment(c.UserContext(), caller, input.ForumID, input.Text)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return c.JSON(comment)
}

func (fc *ForumController) DeleteComment(c *fiber.Ctx) error {
	caller, input, err := fc.commentTarget(c, true)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	if err := fc.Forums.DeleteComment(c.UserContext(), caller, input.ForumID, input.CommentID); err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return utils.OK(c)
}

// MarkHelpful godoc
// @Summary Flag a comment as helpful
// @Description Only the forum owner may flag comments
// @Tags forums
// @Accept json
// @Produce json
// @Param input body ForumCommentRequest true "forumId, commentId, isHelpful"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /forum/mark-helpful [patch]
func (fc *ForumController) MarkHelpful(c *fiber.Ctx) error {
	caller, input, err := fc.commentTarget(c, true)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	if err := fc.Forums.MarkHelpful(c.UserContext(), caller, input.ForumID, input.CommentID, input.IsHelpful); err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return utils.OK(c)
}

// Close godoc
// @Summary Close a forum
// @Tags forums
// @Produce json
// @Param id path string true "Forum ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /forum/close/{id} [patch]
func (fc *ForumController) Close(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	forumID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	if err := fc.Forums.Close(c.UserContext(), caller, forumID); err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return utils.OK(c)
}

func (fc *ForumController) Get(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	forumID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	view, err := fc.Forums.Get(c.UserContext(), caller, forumID)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return c.JSON(view)
}

func (fc *ForumController) GetSorted(c *fiber.Ctx) error {
	page, err := query.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	sort, err := query.ParseForumSort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	res, err := fc.Forums.ListSorted(c.UserContext(), sort, page)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return c.JSON(forumListResponse{
		Forums:     res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

func (fc *ForumController) Search(c *fiber.Ctx) error {
	search, err := query.ParseSearch(c.Query("query"), c.Query("limit"))
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}

	results, err := fc.Forums.Search(c.UserContext(), search)
	if err != nil {
		return utils.Fail(c, fc.Logger, err)
	}
	return c.JSON(forumSearchResponse{Results: results, Total: len(results), Limit: search.Limit})
}
