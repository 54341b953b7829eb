package query

import (
	"sort"
	"strings"

	"crowdfund/backend/models"
)

// IdeaSortField values double as the document field names.
type IdeaSortField string

const (
	IdeaByCreatedAt        IdeaSortField = "createdAt"
	IdeaByName             IdeaSortField = "name"
	IdeaByTargetAmount     IdeaSortField = "targetAmount"
	IdeaByAlreadyCollected IdeaSortField = "alreadyCollected"
	IdeaByFundingDeadline  IdeaSortField = "fundingDeadline"
)

type ForumSortField string

const (
	ForumByCreatedAt ForumSortField = "createdAt"
	ForumByTitle     ForumSortField = "title"
)

type IdeaSort struct {
	By    IdeaSortField
	Order SortOrder
}

type ForumSort struct {
	By    ForumSortField
	Order SortOrder
}

func ParseIdeaSort(by, order string) (IdeaSort, error) {
	o, err := parseOrder(order)
	if err != nil {
		return IdeaSort{}, err
	}
	switch f := IdeaSortField(by); f {
	case "":
		return IdeaSort{By: IdeaByCreatedAt, Order: o}, nil
	case IdeaByCreatedAt, IdeaByName, IdeaByTargetAmount, IdeaByAlreadyCollected, IdeaByFundingDeadline:
		return IdeaSort{By: f, Order: o}, nil
	}
	return IdeaSort{}, models.ErrInvalidParameters
}

func ParseForumSort(by, order string) (ForumSort, error) {
	o, err := parseOrder(order)
	if err != nil {
		return ForumSort{}, err
	}
	switch f := ForumSortField(by); f {
	case "":
		return ForumSort{By: ForumByCreatedAt, Order: o}, nil
	case ForumByCreatedAt, ForumByTitle:
		return ForumSort{By: f, Order: o}, nil
	}
	return ForumSort{}, models.ErrInvalidParameters
}

func (s IdeaSort) Key() string  { return string(s.By) + ":" + string(s.Order) }
func (s ForumSort) Key() string { return string(s.By) + ":" + string(s.Order) }

// Less orders two ideas by the primary key only; ties are left unbroken.
func (s IdeaSort) Less(a, b *models.Idea) bool {
	var less, greater bool
	switch s.By {
	case IdeaByName:
		c := strings.Compare(a.Name, b.Name)
		less, greater = c < 0, c > 0
	case IdeaByTargetAmount:
		less, greater = a.TargetAmount < b.TargetAmount, a.TargetAmount > b.TargetAmount
	case IdeaByAlreadyCollected:
		less, greater = a.AlreadyCollected < b.AlreadyCollected, a.AlreadyCollected > b.AlreadyCollected
	case IdeaByFundingDeadline:
		less, greater = a.FundingDeadline.Before(b.FundingDeadline), a.FundingDeadline.After(b.FundingDeadline)
	default:
		less, greater = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.After(b.CreatedAt)
	}
	if s.Order == Asc {
		return less
	}
	return greater
}

func (s ForumSort) Less(a, b *models.Forum) bool {
	var less, greater bool
	switch s.By {
	case ForumByTitle:
		c := strings.Compare(a.Title, b.Title)
		less, greater = c < 0, c > 0
	default:
		less, greater = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.After(b.CreatedAt)
	}
	if s.Order == Asc {
		return less
	}
	return greater
}

func (s IdeaSort) Apply(ideas []*models.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool { return s.Less(ideas[i], ideas[j]) })
}

func (s ForumSort) Apply(forums []*models.Forum) {
	sort.SliceStable(forums, func(i, j int) bool { return s.Less(forums[i], forums[j]) })
}
