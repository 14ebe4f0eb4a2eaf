package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/constructia/platform-api/internal/core/domain"
)

const clientsCollection = "clients"

// ClientRepository reads the hosted clients table. The Authenticator only
// ever needs exact-email lookups returning at most one row.
type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(clientsCollection)}
}

type clientRow struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Email              string             `bson:"email"`
	Password           string             `bson:"password"`
	Company            string             `bson:"company"`
	Status             string             `bson:"status"`
	SubscriptionPlan   string             `bson:"subscription_plan"`
	SubscriptionStatus string             `bson:"subscription_status"`
	AvailableTokens    int                `bson:"available_tokens"`
	MonthlyAllowance   int                `bson:"monthly_allowance"`
	StorageLimitGB     int                `bson:"storage_limit_gb"`
	CreatedAt          int64              `bson:"created_at"`
}

// FindByEmail returns the client row matching email exactly (case-sensitive).
// Missing rows map to domain.ErrUserNotFound and access-policy rejections to
// domain.ErrPermissionDenied so the caller can treat both as a negative match.
func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*domain.ClientAccount, error) {
	var row clientRow
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&row); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		if isPolicyError(err) {
			return nil, domain.ErrPermissionDenied
		}
		return nil, fmt.Errorf("find client: %w", err)
	}

	return &domain.ClientAccount{
		ID:                 row.ID.Hex(),
		Name:               row.Name,
		Email:              row.Email,
		Password:           row.Password,
		Company:            row.Company,
		Status:             row.Status,
		SubscriptionPlan:   row.SubscriptionPlan,
		SubscriptionStatus: row.SubscriptionStatus,
		AvailableTokens:    row.AvailableTokens,
		MonthlyAllowance:   row.MonthlyAllowance,
		StorageLimitGB:     row.StorageLimitGB,
		CreatedAt:          unixToTime(row.CreatedAt),
	}, nil
}

// isPolicyError recognises access-policy rejections by error text. The hosted
// database surfaces these with wording like "permission denied", "policy
// violation" or "RLS"; command error code 13 (Unauthorized) counts too.
func isPolicyError(err error) bool {
	var cmdErr mongo.CommandError
	if mongo.IsTimeout(err) {
		return false
	}
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"permission", "policy", "rls", "unauthorized"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
