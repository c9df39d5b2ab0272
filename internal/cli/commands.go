package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts for an ID token from the authentication backend, derives the
// owner from it and starts the quota reconciler for that owner. The token is
// a bearer credential, so it is read without echo.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Paste your ID token", os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.service.Login(ctx, strings.TrimSpace(string(token)))
	if err != nil {
		fmt.Println("Login unsuccessful:", err)
		return err
	}

	a.startReconciler(ctx, sess.OwnerID)
	fmt.Println("Logged in as", sess.OwnerID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.stopReconciler()
	a.service.Logout()
	fmt.Println("Logged out")
	return nil
}

// Roll performs one quota-gated roll and prints the resulting date plan.
func (a *App) Roll(ctx context.Context) error {
	out, err := a.service.Roll(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorQuotaExhausted):
			fmt.Println("No free rolls left today. Try again tomorrow or go unlimited.")
		case errors.Is(err, common.ErrorRemoteUnavailable):
			fmt.Println("Could not confirm the roll with the server. Try again.")
		case errors.Is(err, common.ErrorNoSession):
			fmt.Println("Please login first.")
		default:
			fmt.Println("Roll failed:", err)
		}
		return err
	}

	for _, cat := range models.Categories() {
		f := out.Faces[cat]
		fmt.Printf("  %-8s %s %s\n", cat, f.Emoji, f.Label)
	}
	if out.Quota.Unlimited {
		fmt.Println("(unlimited)")
	} else {
		fmt.Printf("(%d free roll(s) left today)\n", out.Quota.Remaining)
	}
	return nil
}

// Quota prints the current daily allowance.
func (a *App) Quota(ctx context.Context) error {
	s := a.service.QuotaSummary(ctx)
	if s.HasUnlimitedAccess {
		fmt.Println("Unlimited access")
		return nil
	}
	fmt.Printf("Used %d of %d today, %d remaining\n", s.Used, s.Limit, s.Remaining)
	return nil
}

// Faces lists the active faces, catalog and custom combined.
func (a *App) Faces(ctx context.Context) error {
	faces := a.service.ActiveFaces(ctx)
	if len(faces) == 0 {
		fmt.Println("No faces available")
		return nil
	}
	for _, f := range faces {
		owner := "catalog"
		if f.OwnerID != "" {
			owner = "custom"
		}
		fmt.Printf("  %s  %-8s w=%-2d %s %s (%s)\n", f.ID, f.Category, f.Weight, f.Emoji, f.Label, owner)
	}
	return nil
}

// History prints the most recent rolls, newest first.
func (a *App) History(ctx context.Context) error {
	records := a.service.History(ctx)
	if len(records) == 0 {
		fmt.Println("No rolls yet")
		return nil
	}
	for _, r := range records {
		fmt.Printf("  %s  %s / %s / %s\n",
			r.RolledAt.Format("2006-01-02 15:04"),
			r.Faces[models.CategoryPayer],
			r.Faces[models.CategoryPlace],
			r.Faces[models.CategoryActivity])
	}
	return nil
}

// AddFace prompts for the new face's fields and persists it.
func (a *App) AddFace(ctx context.Context) error {
	label, err := getSimpleText(a.reader, "Label", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (payer/place/activity)", os.Stdout)
	if err != nil {
		return err
	}
	emoji, err := getSimpleText(a.reader, "Emoji (optional)", os.Stdout)
	if err != nil {
		return err
	}
	weight, err := GetInt(a.reader, "Weight 1-10 (default 1)", 1, os.Stdout)
	if err != nil {
		fmt.Println(err)
		return err
	}

	f, err := a.service.AddFace(ctx, label, emoji, models.Category(category), weight)
	if err != nil {
		var violation *models.FieldViolation
		switch {
		case errors.As(err, &violation):
			fmt.Printf("Invalid %s: %s\n", violation.Field, violation.Constraint)
		case errors.Is(err, common.ErrorFaceLimit):
			fmt.Println("Custom face limit reached")
		default:
			fmt.Println("Could not add face:", err)
		}
		return err
	}

	fmt.Println("Added face", f.ID)
	return nil
}

func (a *App) DeactivateFace(ctx context.Context, id string) error {
	if err := a.service.DeactivateFace(ctx, id); err != nil {
		fmt.Println("Could not deactivate face:", err)
		return err
	}
	fmt.Println("Face deactivated")
	return nil
}

func (a *App) DeleteFace(ctx context.Context, id string) error {
	if err := a.service.DeleteFace(ctx, id); err != nil {
		fmt.Println("Could not delete face:", err)
		return err
	}
	fmt.Println("Face deleted")
	return nil
}

func (a *App) SetUnlimited(ctx context.Context, on bool) error {
	if err := a.service.SetUnlimited(ctx, on); err != nil {
		fmt.Println("Saved locally, but the server did not confirm:", err)
		return err
	}
	fmt.Println("Unlimited access:", on)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.service.RefreshAll(ctx)
	fmt.Println("Refreshed")
	return nil
}

func (a *App) CacheStats(ctx context.Context) error {
	s := a.service.CacheStats(ctx)
	fmt.Printf("%d entries, %d bytes\n", s.Entries, s.TotalSizeBytes)
	return nil
}

func (a *App) ClearCache(ctx context.Context) error {
	a.service.ClearCache(ctx)
	fmt.Println("Cache cleared")
	return nil
}
