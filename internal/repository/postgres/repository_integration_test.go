package postgres_test

import (
	"encoding/json"
	"sync"
	"testing"

	gorm "github.com/jinzhu/gorm"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	"codboost/internal/models"
	repo "codboost/internal/repository"
	pg "codboost/internal/repository/postgres"
)

type pgEnv struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	DB       *gorm.DB
	R        *repo.Repository
}

func upPostgres(t *testing.T) *pgEnv {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_DB=codboost",
		"POSTGRES_USER=app",
		"POSTGRES_PASSWORD=app",
	})
	require.NoError(t, err)

	env := &pgEnv{pool: pool, resource: resource}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	require.NoError(t, pool.Retry(func() error {
		hostPort := resource.GetPort("5432/tcp")
		db, err := pg.ConnectDB(pg.Config{
			Host:     "localhost",
			Port:     hostPort,
			Username: "app",
			Password: "app",
			DbName:   "codboost",
			SslMode:  "disable",
		})
		if err != nil {
			return err
		}
		env.DB = db

		if err := pg.Migrate(db); err != nil {
			return err
		}

		env.R = repo.NewRepository(db)
		return nil
	}))

	return env
}

func codOrder(shop string, total float64) models.CodOrder {
	return models.CodOrder{
		ShopDomain:   shop,
		OrderNumber:  "COD123456001",
		ProductID:    "1",
		VariantID:    "42",
		ProductTitle: "Argan Oil 100ml",
		Quantity:     2,
		UnitPrice:    total / 2,
		Subtotal:     total,
		DeliveryFee:  0,
		Total:        total,

		CustomerName:  "Ahmed Bennani",
		CustomerPhone: "0612345678",

		DeliveryAddress: "12 Rue Example",
		DeliveryCity:    "Casablanca",
	}
}

const shopA = "shop-a.myshopify.com"

func Test_Postgres_CreateAndFind(t *testing.T) {
	env := upPostgres(t)

	saved, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.Equal(t, models.StatusPending, saved.Status)
	require.Equal(t, models.PaymentPending, saved.PaymentStatus)

	got, err := env.R.Orders.FindByID(saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Ahmed Bennani", got.CustomerName)
	require.Nil(t, got.ShopifyOrderID)

	_, err = env.R.Orders.FindByID(99999)
	require.True(t, gorm.IsRecordNotFoundError(err))
}

func Test_Postgres_SetShopifyOrder(t *testing.T) {
	env := upPostgres(t)

	saved, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)

	linked, err := env.R.Orders.SetShopifyOrder(saved.ID, 987654, "1033")
	require.NoError(t, err)
	require.NotNil(t, linked.ShopifyOrderID)
	require.Equal(t, int64(987654), *linked.ShopifyOrderID)
	require.Equal(t, "1033", linked.OrderNumber)

	byRemote, err := env.R.Orders.FindByShopifyID(987654)
	require.NoError(t, err)
	require.Equal(t, saved.ID, byRemote.ID)
}

func Test_Postgres_UpdateStatus_Lifecycle(t *testing.T) {
	env := upPostgres(t)

	saved, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)

	confirmed, err := env.R.Orders.UpdateStatus(saved.ID, models.StatusConfirmed, "called the customer")
	require.NoError(t, err)
	require.Equal(t, models.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	require.Equal(t, "called the customer", confirmed.OrderNotes)

	delivered, err := env.R.Orders.UpdateStatus(saved.ID, models.StatusDelivered, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusDelivered, delivered.Status)
	require.Equal(t, models.PaymentPaid, delivered.PaymentStatus)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = env.R.Orders.UpdateStatus(saved.ID, models.StatusCancelled, "")
	require.ErrorIs(t, err, pg.ErrInvalidTransition, "delivered is terminal")
}

func Test_Postgres_UpdateStatus_InvalidFromPending(t *testing.T) {
	env := upPostgres(t)

	saved, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)

	_, err = env.R.Orders.UpdateStatus(saved.ID, models.StatusDelivered, "")
	require.ErrorIs(t, err, pg.ErrInvalidTransition, "pending cannot jump straight to delivered")
}

func Test_Postgres_UpdateStatus_ConcurrentOneWinner(t *testing.T) {
	env := upPostgres(t)

	saved, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, target := range []string{models.StatusConfirmed, models.StatusCancelled} {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			_, errs[i] = env.R.Orders.UpdateStatus(saved.ID, target, "")
		}(i, target)
	}
	wg.Wait()

	// confirmed -> cancelled is legal, so both may succeed when the
	// confirm lands first; the lock only forbids both moving from pending.
	got, err := env.R.Orders.FindByID(saved.ID)
	require.NoError(t, err)
	if errs[0] != nil || errs[1] != nil {
		require.Contains(t, []string{models.StatusConfirmed, models.StatusCancelled}, got.Status)
	} else {
		require.Equal(t, models.StatusCancelled, got.Status)
	}
}

func Test_Postgres_FindByShop_Pagination(t *testing.T) {
	env := upPostgres(t)

	for i := 0; i < 5; i++ {
		_, err := env.R.Orders.Create(codOrder(shopA, 100))
		require.NoError(t, err)
	}
	_, err := env.R.Orders.Create(codOrder("shop-b.myshopify.com", 100))
	require.NoError(t, err)

	page1, total, err := env.R.Orders.FindByShop(shopA, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page3, _, err := env.R.Orders.FindByShop(shopA, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)

	empty, total, err := env.R.Orders.FindByShop("nobody.myshopify.com", 1, 20)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Len(t, empty, 0)
}

func Test_Postgres_Stats(t *testing.T) {
	env := upPostgres(t)

	pending, err := env.R.Orders.Create(codOrder(shopA, 100))
	require.NoError(t, err)
	_ = pending

	confirmed, err := env.R.Orders.Create(codOrder(shopA, 200))
	require.NoError(t, err)
	_, err = env.R.Orders.UpdateStatus(confirmed.ID, models.StatusConfirmed, "")
	require.NoError(t, err)

	delivered, err := env.R.Orders.Create(codOrder(shopA, 300))
	require.NoError(t, err)
	_, err = env.R.Orders.UpdateStatus(delivered.ID, models.StatusConfirmed, "")
	require.NoError(t, err)
	_, err = env.R.Orders.UpdateStatus(delivered.ID, models.StatusDelivered, "")
	require.NoError(t, err)

	cancelled, err := env.R.Orders.Create(codOrder(shopA, 400))
	require.NoError(t, err)
	_, err = env.R.Orders.UpdateStatus(cancelled.ID, models.StatusCancelled, "")
	require.NoError(t, err)

	stats, err := env.R.Orders.Stats(shopA)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(1), stats.Pending)
	require.Equal(t, int64(1), stats.Confirmed)
	require.Equal(t, int64(1), stats.Delivered)
	require.Equal(t, int64(1), stats.Cancelled)
	// revenue counts confirmed + delivered only
	require.InDelta(t, 500, stats.TotalRevenue, 0.001)
}

func Test_Postgres_Settings_DefaultsAndSave(t *testing.T) {
	env := upPostgres(t)

	got, err := env.R.Settings.Get(shopA)
	require.NoError(t, err)
	require.Equal(t, float64(30), got.Delivery.DeliveryFee, "unsaved shops get defaults")

	got.Delivery.DeliveryFee = 45
	got.General.CompanyName = "RT Solutions"
	require.NoError(t, env.R.Settings.Save(shopA, got))

	reread, err := env.R.Settings.Get(shopA)
	require.NoError(t, err)
	require.Equal(t, float64(45), reread.Delivery.DeliveryFee)
	require.Equal(t, "RT Solutions", reread.General.CompanyName)
}

func Test_Postgres_Settings_SectionMerge(t *testing.T) {
	env := upPostgres(t)

	partial, err := json.Marshal(map[string]interface{}{"deliveryFee": 50})
	require.NoError(t, err)

	updated, err := env.R.Settings.UpdateSection(shopA, "delivery", partial)
	require.NoError(t, err)
	require.Equal(t, float64(50), updated.Delivery.DeliveryFee)
	require.Equal(t, float64(500), updated.Delivery.FreeDeliveryThreshold, "untouched fields keep defaults")

	_, err = env.R.Settings.UpdateSection(shopA, "bogus", partial)
	require.ErrorIs(t, err, pg.ErrUnknownSection)
}
