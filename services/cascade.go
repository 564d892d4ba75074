package services

import (
	"context"

	"go-restaurant-orders/assets"
	"go-restaurant-orders/common"
	"go-restaurant-orders/database"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// CascadeDeleter removes an org together with its categories, orders and
// products in one transaction.
type CascadeDeleter struct {
	orgs       OrgStore
	categories CategoryStore
	orders     OrderStore
	products   ProductStore
	ownership  *Ownership
	tx         database.Transactor
	assets     assets.Deleter
	log        *logrus.Logger
}

func NewCascadeDeleter(orgs OrgStore, categories CategoryStore, orders OrderStore, products ProductStore, ownership *Ownership, tx database.Transactor, assetDeleter assets.Deleter, log *logrus.Logger) *CascadeDeleter {
	return &CascadeDeleter{
		orgs:       orgs,
		categories: categories,
		orders:     orders,
		products:   products,
		ownership:  ownership,
		tx:         tx,
		assets:     assetDeleter,
		log:        log,
	}
}

// DeleteOrg reports false when the transaction fails; that failure is logged
// and not returned. Ownership and existence failures are returned as errors.
func (d *CascadeDeleter) DeleteOrg(ctx context.Context, userID, orgID primitive.ObjectID) (bool, error) {
	if err := d.ownership.VerifyOrg(ctx, userID, orgID); err != nil {
		return false, err
	}
	exists, err := d.orgs.Exists(ctx, orgID)
	if err != nil {
		return false, common.Classify(err)
	}
	if !exists {
		return false, common.ErrOrgNotFound
	}

	var images []string
	err = d.tx.WithTransaction(ctx, func(ctx context.Context) error {
		images = nil
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			_, err := d.categories.DeleteByOrg(gctx, orgID)
			return err
		})
		g.Go(func() error {
			_, err := d.orders.DeleteByOrg(gctx, orgID)
			return err
		})
		g.Go(func() error {
			urls, err := d.products.DeleteByOrg(gctx, orgID)
			images = urls
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		n, err := d.orgs.Delete(ctx, orgID)
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrOrgNotFound
		}
		return nil
	})
	logger := d.log.WithField("org_id", orgID.Hex())
	if err != nil {
		logger.WithError(err).Error("org deletion rolled back")
		return false, nil
	}

	logger.WithField("images", len(images)).Info("org deleted")
	d.assets.DeleteKeys(assets.KeysFromURLs(images))
	d.assets.DeleteKeys([]string{orgID.Hex() + "/"})
	return true, nil
}
