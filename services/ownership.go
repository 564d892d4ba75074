package services

import (
	"context"
	"fmt"

	"go-restaurant-orders/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Verifier confirms that id belongs to parent: an org to a user, or a
// category/order/product to an org. Every failure reads "organization not
// found" so callers cannot tell a missing org from someone else's.
type Verifier struct {
	entity string
	exists func(ctx context.Context, parent, id primitive.ObjectID) (bool, error)
}

type OwnerStore interface {
	OwnedBy(ctx context.Context, orgID, userID primitive.ObjectID) (bool, error)
}

// NewOrgVerifier checks {_id: orgID, user: userID}. Verify takes the user
// as parent and the org as id.
func NewOrgVerifier(orgs OwnerStore) *Verifier {
	return &Verifier{
		entity: "org",
		exists: func(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
			return orgs.OwnedBy(ctx, orgID, userID)
		},
	}
}

// NewChildVerifier checks {_id: childID, org: orgID}.
func NewChildVerifier(entity string, store ScopedStore) *Verifier {
	return &Verifier{entity: entity, exists: store.ExistsInOrg}
}

func (v *Verifier) Verify(ctx context.Context, parent, id primitive.ObjectID) error {
	ok, err := v.exists(ctx, parent, id)
	if err != nil {
		return common.Classify(fmt.Errorf("verifying %s ownership: %w", v.entity, err))
	}
	if !ok {
		return common.ErrOrgNotFound
	}
	return nil
}

// Ownership bundles one verifier per entity type.
type Ownership struct {
	Org      *Verifier
	Category *Verifier
	Order    *Verifier
	Product  *Verifier
}

func NewOwnership(orgs OwnerStore, categories, orders, products ScopedStore) *Ownership {
	return &Ownership{
		Org:      NewOrgVerifier(orgs),
		Category: NewChildVerifier("category", categories),
		Order:    NewChildVerifier("order", orders),
		Product:  NewChildVerifier("product", products),
	}
}

func (o *Ownership) VerifyOrg(ctx context.Context, userID, orgID primitive.ObjectID) error {
	return o.Org.Verify(ctx, userID, orgID)
}

// VerifyChild checks user→org and child→org concurrently.
func (o *Ownership) VerifyChild(ctx context.Context, child *Verifier, userID, orgID, childID primitive.ObjectID) error {
	return verifyAll(ctx,
		func(ctx context.Context) error { return o.Org.Verify(ctx, userID, orgID) },
		func(ctx context.Context) error { return child.Verify(ctx, orgID, childID) },
	)
}

func (o *Ownership) VerifyCategory(ctx context.Context, userID, orgID, categoryID primitive.ObjectID) error {
	return o.VerifyChild(ctx, o.Category, userID, orgID, categoryID)
}

func (o *Ownership) VerifyOrder(ctx context.Context, userID, orgID, orderID primitive.ObjectID) error {
	return o.VerifyChild(ctx, o.Order, userID, orgID, orderID)
}

func (o *Ownership) VerifyProduct(ctx context.Context, userID, orgID, productID primitive.ObjectID) error {
	return o.VerifyChild(ctx, o.Product, userID, orgID, productID)
}

// verifyAll runs the checks concurrently and waits for all of them.
func verifyAll(ctx context.Context, checks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, check := range checks {
		check := check
		g.Go(func() error { return check(gctx) })
	}
	return g.Wait()
}
