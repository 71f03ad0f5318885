package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pindrop/internal/apperr"
	"pindrop/internal/geo"
	"pindrop/internal/models"
)

// HierarchyScope narrows a comment query to one level of the
// pin ⊂ city ⊂ country hierarchy. Precedence is strict: a pin id wins over
// city/country, city only counts together with its country, a bare country
// filters alone, and nothing at all means global. The optional calendar
// date is ANDed in regardless of which branch fired.
func HierarchyScope(pinID, city, country, date string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch {
		case pinID != "":
			tx = tx.Where("comments.pin_id = ?", pinID)
		case city != "" && country != "":
			tx = tx.Where("comments.country = ? AND comments.city = ?", country, city)
		case country != "":
			tx = tx.Where("comments.country = ?", country)
		}
		if date != "" {
			tx = tx.Where("DATE(comments.created_at) = ?", date)
		}
		return tx
	}
}

// OrderClause maps a sort keyword to a total order over comments. The
// trailing id term keeps every ordering deterministic even when two
// comments share a timestamp.
func OrderClause(sort string) string {
	switch sort {
	case "new", "newest":
		return "comments.created_at DESC, comments.id DESC"
	case "old", "oldest":
		return "comments.created_at ASC, comments.id ASC"
	case "liked":
		return "comments.likes DESC, comments.created_at DESC, comments.id DESC"
	case "disliked":
		return "comments.dislikes DESC, comments.created_at DESC, comments.id DESC"
	default: // "top" and anything unrecognized
		return "(comments.likes - comments.dislikes) DESC, comments.created_at DESC, comments.id DESC"
	}
}

// CommentView is a listing row: the comment joined with its author's
// username and, when pinned, the pin's identity.
type CommentView struct {
	ID                string                `json:"id"`
	Content           string                `json:"content"`
	TranslatedContent models.TranslationMap `json:"translated_content,omitempty"`
	Country           string                `json:"country"`
	City              *string               `json:"city"`
	Likes             int                   `json:"likes"`
	Dislikes          int                   `json:"dislikes"`
	CreatedAt         time.Time             `json:"created_at"`
	Username          string                `json:"username"`
	PinID             *string               `json:"pin_id"`
	PinName           *string               `json:"pin_name"`
	DisplayContent    string                `json:"displayContent,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

const commentColumns = `comments.id, comments.content, comments.translated_content,
	comments.country, comments.city, comments.likes, comments.dislikes,
	comments.created_at, users.username, pins.id AS pin_id, pins.name AS pin_name`

func (s *CommentService) listQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("comments").
		Select(commentColumns).
		Joins("JOIN users ON comments.user_id = users.id").
		Joins("LEFT JOIN pins ON comments.pin_id = pins.id")
}

// List returns one page of comments for a hierarchy scope plus the total
// for the same predicate.
func (s *CommentService) List(ctx context.Context, pinID, city, country, date, sort string, page, limit int) ([]CommentView, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	scope := HierarchyScope(pinID, city, country, date)

	var rows []CommentView
	err := s.listQuery(ctx).
		Scopes(scope).
		Order(OrderClause(sort)).
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Table("comments").Scopes(scope).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	return rows, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (CommentView, error) {
	var row CommentView
	result := s.listQuery(ctx).Where("comments.id = ?", id).Limit(1).Scan(&row)
	if result.Error != nil {
		return CommentView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return CommentView{}, apperr.NotFound("Comment not found")
	}
	return row, nil
}

// ListByUser pages a user's comment history, newest first by default.
func (s *CommentService) ListByUser(ctx context.Context, userID, sort string, page, limit int) ([]CommentView, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var order string
	switch sort {
	case "top":
		order = OrderClause("top")
	case "oldest":
		order = OrderClause("oldest")
	default:
		order = OrderClause("newest")
	}

	var rows []CommentView
	err := s.listQuery(ctx).
		Where("comments.user_id = ?", userID).
		Order(order).
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&rows).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	return rows, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// NewPin describes an inline pin attached to a fresh comment. City and
// Country are filled from reverse geocoding before Create runs.
type NewPin struct {
	Name          string
	Lat           float64
	Lng           float64
	GooglePlaceID *string
	City          *string
	Country       string
}

type NewComment struct {
	Content string
	Country string
	City    *string
	PinID   *string
	NewPin  *NewPin
}

// Create inserts a comment, resolving an inline pin through the proximity
// guard first (reusing a neighbor instead of duplicating it), and stamps
// the author's last post date. Everything happens in one transaction so a
// failed comment never leaves a stray pin behind.
func (s *CommentService) Create(ctx context.Context, userID string, in NewComment, postDay time.Time) (models.Comment, error) {
	var comment models.Comment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pinID := in.PinID
		city := in.City
		country := in.Country

		if in.NewPin != nil {
			nearby, err := nearestPinWithin(tx, in.NewPin.Lat, in.NewPin.Lng, MinPinDistanceMeters)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				// A pin already marks this spot; attach to it silently.
				pinID = &nearby.ID
			} else {
				pin := models.Pin{
					ID:            uuid.NewString(),
					Name:          in.NewPin.Name,
					Location:      geo.Point{Lat: in.NewPin.Lat, Lng: in.NewPin.Lng},
					GooglePlaceID: in.NewPin.GooglePlaceID,
					City:          in.NewPin.City,
					Country:       &in.NewPin.Country,
					CreatedBy:     userID,
				}
				if err := tx.Create(&pin).Error; err != nil {
					return err
				}
				pinID = &pin.ID
			}
			city = in.NewPin.City
			country = in.NewPin.Country
		}

		if country == "" {
			return apperr.BadRequest("Country is required")
		}

		comment = models.Comment{
			ID:      uuid.NewString(),
			UserID:  userID,
			PinID:   pinID,
			Country: country,
			City:    city,
			Content: in.Content,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("last_post_date", postDay.Format("2006-01-02")).Error
	})
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
