package models

// RejectionKind classifies an expected rejection so the HTTP layer can pick a status.
type RejectionKind int

const (
	KindValidation RejectionKind = iota
	KindUnauthorized
	KindForbidden
	KindConflict
	KindNotFound
)

// Rejection is an expected, user-facing refusal carrying a stable string code.
// Strategies and services return it as a plain error value.
type Rejection struct {
	Code string
	Kind RejectionKind
}

func (r *Rejection) Error() string { return r.Code }

func validation(code string) *Rejection   { return &Rejection{Code: code, Kind: KindValidation} }
func unauthorized(code string) *Rejection { return &Rejection{Code: code, Kind: KindUnauthorized} }
func forbidden(code string) *Rejection    { return &Rejection{Code: code, Kind: KindForbidden} }
func conflict(code string) *Rejection     { return &Rejection{Code: code, Kind: KindConflict} }
func notFound(code string) *Rejection     { return &Rejection{Code: code, Kind: KindNotFound} }

// Idea rejections
var (
	ErrEmptyName                = validation("EMPTY_NAME")
	ErrEmptyDescription         = validation("EMPTY_DESCRIPTION")
	ErrInvalidTargetAmount      = validation("INVALID_TARGET_AMOUNT")
	ErrInvalidDeadline          = validation("INVALID_FUNDING_DEADLINE")
	ErrIdeaNameTaken            = conflict("IDEA_NAME_TAKEN")
	ErrUnableToStartIdea        = forbidden("UNABLE_TO_START_IDEA")
	ErrEmptyRatedBy             = validation("EMPTY_RATED_BY")
	ErrInvalidRating            = validation("INVALID_RATING")
	ErrAlreadyRated             = conflict("ALREADY_RATED")
	ErrRateYourIdea             = conflict("RATE_YOUR_IDEA")
	ErrUnableToRate             = forbidden("UNABLE_TO_RATE")
	ErrEmptyFunder              = validation("EMPTY_FUNDER")
	ErrInvalidFundingAmount     = validation("INVALID_FUNDING_AMOUNT")
	ErrInvestYourIdea           = conflict("INVEST_YOUR_IDEA")
	ErrFundingGreaterThanTarget = conflict("FUNDING_AMOUNT_GREATER_THAN_TARGET")
	ErrUnableToInvest           = forbidden("UNABLE_TO_INVEST")
	ErrIdeaClosed               = conflict("IDEA_CLOSED")
	ErrIdeaAlreadyClosed        = conflict("IDEA_ALREADY_CLOSED")
	ErrIdeaNotFound             = notFound("IDEA_NOT_FOUND")
)

// Comment rejections, shared by ideas and forums
var (
	ErrEmptyComment    = validation("EMPTY_COMMENT")
	ErrEmptyAuthor     = validation("EMPTY_AUTHOR")
	ErrCommentTooLong  = validation("COMMENT_TOO_LONG")
	ErrUnableToComment = forbidden("UNABLE_TO_COMMENT")
	ErrCommentNotFound = notFound("COMMENT_NOT_FOUND")
	ErrNotEnoughAccess = forbidden("NOT_ENOUGH_ACCESS")
)

// Forum rejections
var (
	ErrEmptyTitle          = validation("EMPTY_TITLE")
	ErrForumTitleTaken     = conflict("FORUM_TITLE_TAKEN")
	ErrUnableToCreateForum = forbidden("UNABLE_TO_CREATE_FORUM")
	ErrForumClosed         = conflict("FORUM_CLOSED")
	ErrForumAlreadyClosed  = conflict("FORUM_ALREADY_CLOSED")
	ErrForumNotFound       = notFound("FORUM_NOT_FOUND")
)

// Request and account rejections
var (
	ErrInvalidParameters  = validation("INVALID_PARAMETERS")
	ErrInvalidQuery       = validation("INVALID_QUERY")
	ErrInvalidID          = validation("INVALID_ID")
	ErrInvalidBody        = validation("INVALID_BODY")
	ErrInvalidRole        = validation("INVALID_ROLE")
	ErrUsernameTaken      = conflict("USERNAME_TAKEN")
	ErrEmailTaken         = conflict("EMAIL_TAKEN")
	ErrInvalidCredentials = unauthorized("INVALID_CREDENTIALS")
	ErrUnauthorized       = unauthorized("UNAUTHORIZED")
	ErrUserBanned         = forbidden("USER_BANNED")
	ErrUserNotFound       = notFound("USER_NOT_FOUND")
)
