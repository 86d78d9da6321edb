package connections

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"nexus-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const codePrefix = "NEXUS-"
const codeLength = 6

// No I, L, O, U: codes are read over the phone and typed by hand.
const codeAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ0123456789"

type Service struct {
	DB *gorm.DB
}

// NormalizeCode trims surrounding whitespace and upper-cases a user-supplied
// invite code so lookups are case-insensitive.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

type CreateInviteInput struct {
	InviterID uuid.UUID
	ContactID *uuid.UUID // optional pre-created contact placeholder
}

// CreateInvite mints a pending connection with a fresh invite code. When a
// contact placeholder is supplied it must be a card owned by the inviter; the
// redemption step later links it to the invitee's profile.
func (s *Service) CreateInvite(ctx context.Context, in CreateInviteInput) (*models.Connection, error) {
	var inviter models.Profile
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", in.InviterID).First(&inviter).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Inviter profile not found")
		}
		return nil, err
	}

	if in.ContactID != nil {
		var card models.Contact
		err := s.DB.WithContext(ctx).
			Where("contact_id = ? AND owner_id = ?", *in.ContactID, in.InviterID).
			First(&card).Error
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Contact placeholder not found")
		} else if err != nil {
			return nil, err
		}
	}

	// Unique index on invite_code backs the retry loop.
	for attempt := 0; attempt < 5; attempt++ {
		conn := &models.Connection{
			InviteCode: newInviteCode(),
			InviterID:  in.InviterID,
			ContactID:  in.ContactID,
			Status:     models.ConnectionPending,
		}
		err := s.DB.WithContext(ctx).Create(conn).Error
		if err == nil {
			return conn, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, errors.New("Could not generate a unique invite code")
}

// Redeem locates the pending connection for rawCode and materializes the
// bidirectional contact relationship for inviteeID.
//
// Precondition failures are reported as a non-OK outcome with a nil error so
// the caller decides whether to surface or just log them; a non-nil error is
// only returned for store failures (always paired with OutcomeStoreError).
//
// The routine is re-entrant: contact cards are ensured by natural key
// (owner, linked profile), and the final status flip is a conditional update
// so of two concurrent redemptions of one code exactly one wins.
func (s *Service) Redeem(ctx context.Context, inviteeID uuid.UUID, rawCode string) (RedeemOutcome, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return OutcomeCodeNotFound, nil
	}

	var conn models.Connection
	err := s.DB.WithContext(ctx).
		Where("invite_code = ? AND status = ?", code, models.ConnectionPending).
		First(&conn).Error
	if err == gorm.ErrRecordNotFound {
		return OutcomeCodeNotFound, nil
	} else if err != nil {
		return OutcomeStoreError, err
	}

	if conn.InviterID == inviteeID {
		return OutcomeSelfRedeem, nil
	}

	// Accepted pair in either direction means this invite is redundant.
	var dup models.Connection
	err = s.DB.WithContext(ctx).
		Where("status = ?", models.ConnectionAccepted).
		Where("(inviter_id = ? AND invitee_id = ?) OR (inviter_id = ? AND invitee_id = ?)",
			conn.InviterID, inviteeID, inviteeID, conn.InviterID).
		First(&dup).Error
	if err == nil {
		return OutcomeAlreadyConnected, nil
	} else if err != gorm.ErrRecordNotFound {
		return OutcomeStoreError, err
	}

	var inviter, invitee models.Profile
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", conn.InviterID).First(&inviter).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return OutcomeMissingProfile, nil
		}
		return OutcomeStoreError, err
	}
	if err := s.DB.WithContext(ctx).Where("profile_id = ?", inviteeID).First(&invitee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return OutcomeMissingProfile, nil
		}
		return OutcomeStoreError, err
	}

	inviterCardID, err := s.ensureInviterCard(ctx, &conn, &inviter, &invitee)
	if err != nil {
		return OutcomeStoreError, err
	}
	if _, err := s.ensureCard(ctx, invitee.ProfileID, &inviter); err != nil {
		return OutcomeStoreError, err
	}

	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Connection{}).
		Where("connection_id = ? AND status = ?", conn.ConnectionID, models.ConnectionPending).
		Updates(map[string]interface{}{
			"invitee_id":  inviteeID,
			"contact_id":  inviterCardID,
			"status":      models.ConnectionAccepted,
			"accepted_at": now,
		})
	if res.Error != nil {
		return OutcomeStoreError, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race: someone flipped the status after our pending lookup.
		// The card upserts above were idempotent, so nothing to unwind.
		return OutcomeAlreadyConnected, nil
	}

	log.Info().
		Str("invite_code", code).
		Str("inviter_id", conn.InviterID.String()).
		Str("invitee_id", inviteeID.String()).
		Msg("Connection accepted")
	return OutcomeAccepted, nil
}

// ensureInviterCard resolves the inviter-side card for the invitee:
// reuse an existing linked card, else adopt the connection's placeholder,
// else create a fresh card from the invitee's profile snapshot.
func (s *Service) ensureInviterCard(ctx context.Context, conn *models.Connection, inviter, invitee *models.Profile) (uuid.UUID, error) {
	var existing models.Contact
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND linked_profile_id = ?", inviter.ProfileID, invitee.ProfileID).
		First(&existing).Error
	if err == nil {
		return existing.ContactID, nil
	} else if err != gorm.ErrRecordNotFound {
		return uuid.Nil, err
	}

	if conn.ContactID != nil {
		var placeholder models.Contact
		err := s.DB.WithContext(ctx).
			Where("contact_id = ? AND owner_id = ?", *conn.ContactID, inviter.ProfileID).
			First(&placeholder).Error
		if err == nil {
			placeholder.LinkedProfileID = &invitee.ProfileID
			placeholder.RelationshipType = models.RelationshipConnection
			if err := s.DB.WithContext(ctx).Save(&placeholder).Error; err != nil {
				return uuid.Nil, err
			}
			return placeholder.ContactID, nil
		} else if err != gorm.ErrRecordNotFound {
			return uuid.Nil, err
		}
		// Placeholder row is gone; fall through and create.
	}

	return s.createCard(ctx, inviter.ProfileID, invitee)
}

// ensureCard guarantees ownerID holds a card linked to the counterpart profile,
// creating one from the counterpart's snapshot if absent.
func (s *Service) ensureCard(ctx context.Context, ownerID uuid.UUID, counterpart *models.Profile) (uuid.UUID, error) {
	var existing models.Contact
	err := s.DB.WithContext(ctx).
		Where("owner_id = ? AND linked_profile_id = ?", ownerID, counterpart.ProfileID).
		First(&existing).Error
	if err == nil {
		return existing.ContactID, nil
	} else if err != gorm.ErrRecordNotFound {
		return uuid.Nil, err
	}
	return s.createCard(ctx, ownerID, counterpart)
}

func (s *Service) createCard(ctx context.Context, ownerID uuid.UUID, counterpart *models.Profile) (uuid.UUID, error) {
	card := &models.Contact{
		OwnerID:          ownerID,
		Fullname:         counterpart.Fullname,
		Email:            counterpart.Email,
		AvatarURL:        counterpart.AvatarURL,
		Location:         counterpart.Location,
		Bio:              counterpart.Bio,
		Website:          counterpart.Website,
		LinkedProfileID:  &counterpart.ProfileID,
		RelationshipType: models.RelationshipConnection,
	}
	if err := s.DB.WithContext(ctx).Create(card).Error; err != nil {
		return uuid.Nil, err
	}
	return card.ContactID, nil
}

// ListForProfile returns accepted connections where the profile is on either side.
func (s *Service) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]models.Connection, error) {
	var conns []models.Connection
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.ConnectionAccepted).
		Where("inviter_id = ? OR invitee_id = ?", profileID, profileID).
		Order("accepted_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// PendingForInviter returns the inviter's outstanding invites.
func (s *Service) PendingForInviter(ctx context.Context, inviterID uuid.UUID) ([]models.Connection, error) {
	var conns []models.Connection
	err := s.DB.WithContext(ctx).
		Where("inviter_id = ? AND status = ?", inviterID, models.ConnectionPending).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func newInviteCode() string {
	b := make([]byte, codeLength)
	rand.Read(b)
	out := make([]byte, codeLength)
	for i, v := range b {
		out[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return codePrefix + string(out)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
