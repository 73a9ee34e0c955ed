package loyalty

import (
	"context"
	"errors"
	"time"

	config "github.com/electrohub/loyalty/internal/config"
	models "github.com/electrohub/loyalty/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const systemKey = "system"

// SettingsDB keeps system settings, product settings and coupons in Mongo.
type SettingsDB struct {
	mgo      *mongo.Client
	system   *mongo.Collection
	products *mongo.Collection
	coupons  *mongo.Collection
}

func NewSettingsDB(cfg config.Mongo) (*SettingsDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri, err := cfg.URI()
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	s := &SettingsDB{
		mgo:      client,
		system:   db.Collection("system_settings"),
		products: db.Collection("product_settings"),
		coupons:  db.Collection("coupons"),
	}
	// код купона уникален
	_, err = s.coupons.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SettingsDB) Close(ctx context.Context) error {
	return s.mgo.Disconnect(ctx)
}

// документы

type festiveDoc struct {
	Start      time.Time            `bson:"start"`
	End        time.Time            `bson:"end"`
	Multiplier primitive.Decimal128 `bson:"multiplier"`
}

type systemDoc struct {
	Key                  string               `bson:"_id"`
	Enabled              bool                 `bson:"enabled"`
	CoinsPerCurrencyUnit primitive.Decimal128 `bson:"coins_per_currency_unit"`
	GlobalMultiplier     primitive.Decimal128 `bson:"global_multiplier"`
	MinCoinsToRedeem     int64                `bson:"min_coins_to_redeem"`
	MaxCoinsPerOrder     *int64               `bson:"max_coins_per_order,omitempty"`
	FestiveWindow        *festiveDoc          `bson:"festive_window,omitempty"`
	CoinExpiryDays       int                  `bson:"coin_expiry_days"`
}

type productDoc struct {
	ProductID              string               `bson:"_id"`
	CoinsEarnedPerPurchase int64                `bson:"coins_earned_per_purchase"`
	CoinsRequiredToRedeem  int64                `bson:"coins_required_to_redeem"`
	EarningEnabled         bool                 `bson:"earning_enabled"`
	RedemptionEnabled      bool                 `bson:"redemption_enabled"`
	CouponEligible         bool                 `bson:"coupon_eligible"`
	MaxCouponDiscountPct   primitive.Decimal128 `bson:"max_coupon_discount_pct"`
	CouponCategories       []string             `bson:"coupon_categories"`
	AllowStackingWithCoins bool                 `bson:"allow_stacking_with_coins"`
}

type couponDoc struct {
	ID                string                `bson:"_id"`
	Code              string                `bson:"code"`
	DiscountType      string                `bson:"discount_type"`
	DiscountValue     primitive.Decimal128  `bson:"discount_value"`
	MinOrderValue     primitive.Decimal128  `bson:"min_order_value"`
	MaxDiscountAmount *primitive.Decimal128 `bson:"max_discount_amount,omitempty"`
	StartDate         time.Time             `bson:"start_date"`
	EndDate           *time.Time            `bson:"end_date,omitempty"`
	TotalUsageLimit   *int64                `bson:"total_usage_limit,omitempty"`
	PerUserUsageLimit *int64                `bson:"per_user_usage_limit,omitempty"`
	Active            bool                  `bson:"active"`
	Categories        []string              `bson:"categories"`
}

// системные настройки

func (s *SettingsDB) GetSystemSettings(ctx context.Context) (models.SystemSettings, error) {
	var doc systemDoc
	err := s.system.FindOne(ctx, bson.M{"_id": systemKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SystemSettings{}, models.ErrConfigurationMissing
	}
	if err != nil {
		return models.SystemSettings{}, err
	}
	return doc.model()
}

func (s *SettingsDB) SaveSystemSettings(ctx context.Context, sys models.SystemSettings) error {
	if err := sys.Validate(); err != nil {
		return err
	}
	doc, err := newSystemDoc(sys)
	if err != nil {
		return err
	}
	_, err = s.system.ReplaceOne(ctx, bson.M{"_id": systemKey}, doc, options.Replace().SetUpsert(true))
	return err
}

// настройки товаров

func (s *SettingsDB) Get(ctx context.Context, productId string) (*models.ProductSettings, error) {
	var doc productDoc
	err := s.products.FindOne(ctx, bson.M{"_id": productId}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ps, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// CreateDefault inserts the default row unless one already exists and returns the stored row.
func (s *SettingsDB) CreateDefault(ctx context.Context, productId string) (models.ProductSettings, error) {
	doc, err := newProductDoc(models.DefaultProductSettings(productId))
	if err != nil {
		return models.ProductSettings{}, err
	}
	// $setOnInsert не перезаписывает запись, созданную параллельным запросом
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored productDoc
	err = s.products.FindOneAndUpdate(ctx, bson.M{"_id": productId}, bson.M{"$setOnInsert": doc}, opts).Decode(&stored)
	if err != nil {
		return models.ProductSettings{}, err
	}
	return stored.model()
}

func (s *SettingsDB) List(ctx context.Context) ([]models.ProductSettings, error) {
	result, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer result.Close(ctx)

	var list []models.ProductSettings
	for result.Next(ctx) {
		var doc productDoc
		err := result.Decode(&doc)
		if err != nil {
			return nil, err
		}
		ps, err := doc.model()
		if err != nil {
			return nil, err
		}
		list = append(list, ps)
	}
	return list, result.Err()
}

func (s *SettingsDB) SaveProductSettings(ctx context.Context, ps models.ProductSettings) error {
	if err := ps.Validate(); err != nil {
		return err
	}
	doc, err := newProductDoc(ps)
	if err != nil {
		return err
	}
	_, err = s.products.ReplaceOne(ctx, bson.M{"_id": ps.ProductID}, doc, options.Replace().SetUpsert(true))
	return err
}

// купоны

func (s *SettingsDB) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var doc couponDoc
	err := s.coupons.FindOne(ctx, bson.M{"code": models.NormalizeCode(code)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SettingsDB) SaveCoupon(ctx context.Context, c models.Coupon) (models.Coupon, error) {
	if err := c.Validate(); err != nil {
		return models.Coupon{}, err
	}
	// если ID пустой, значит новый купон
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = models.NormalizeCode(c.Code)
	doc, err := newCouponDoc(c)
	if err != nil {
		return models.Coupon{}, err
	}
	_, err = s.coupons.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return models.Coupon{}, err
	}
	return c, nil
}

// преобразования

func toDec128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDec128(d primitive.Decimal128) (decimal.Decimal, error) {
	s := d.String()
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func newSystemDoc(s models.SystemSettings) (doc systemDoc, err error) {
	doc = systemDoc{
		Key:              systemKey,
		Enabled:          s.Enabled,
		MinCoinsToRedeem: s.MinCoinsToRedeem,
		MaxCoinsPerOrder: s.MaxCoinsPerOrder,
		CoinExpiryDays:   s.CoinExpiryDays,
	}
	if doc.CoinsPerCurrencyUnit, err = toDec128(s.CoinsPerCurrencyUnit); err != nil {
		return doc, err
	}
	if doc.GlobalMultiplier, err = toDec128(s.GlobalMultiplier); err != nil {
		return doc, err
	}
	if s.FestiveWindow != nil {
		m, err := toDec128(s.FestiveWindow.Multiplier)
		if err != nil {
			return doc, err
		}
		doc.FestiveWindow = &festiveDoc{Start: s.FestiveWindow.Start, End: s.FestiveWindow.End, Multiplier: m}
	}
	return doc, nil
}

func (d systemDoc) model() (s models.SystemSettings, err error) {
	s = models.SystemSettings{
		Enabled:          d.Enabled,
		MinCoinsToRedeem: d.MinCoinsToRedeem,
		MaxCoinsPerOrder: d.MaxCoinsPerOrder,
		CoinExpiryDays:   d.CoinExpiryDays,
	}
	if s.CoinsPerCurrencyUnit, err = fromDec128(d.CoinsPerCurrencyUnit); err != nil {
		return s, err
	}
	if s.GlobalMultiplier, err = fromDec128(d.GlobalMultiplier); err != nil {
		return s, err
	}
	if d.FestiveWindow != nil {
		m, err := fromDec128(d.FestiveWindow.Multiplier)
		if err != nil {
			return s, err
		}
		s.FestiveWindow = &models.FestiveWindow{Start: d.FestiveWindow.Start, End: d.FestiveWindow.End, Multiplier: m}
	}
	return s, nil
}

func newProductDoc(p models.ProductSettings) (doc productDoc, err error) {
	doc = productDoc{
		ProductID:              p.ProductID,
		CoinsEarnedPerPurchase: p.CoinsEarnedPerPurchase,
		CoinsRequiredToRedeem:  p.CoinsRequiredToRedeem,
		EarningEnabled:         p.EarningEnabled,
		RedemptionEnabled:      p.RedemptionEnabled,
		CouponEligible:         p.CouponEligible,
		CouponCategories:       p.CouponCategories,
		AllowStackingWithCoins: p.AllowStackingWithCoins,
	}
	if doc.CouponCategories == nil {
		doc.CouponCategories = []string{}
	}
	doc.MaxCouponDiscountPct, err = toDec128(p.MaxCouponDiscountPct)
	return doc, err
}

func (d productDoc) model() (p models.ProductSettings, err error) {
	p = models.ProductSettings{
		ProductID:              d.ProductID,
		CoinsEarnedPerPurchase: d.CoinsEarnedPerPurchase,
		CoinsRequiredToRedeem:  d.CoinsRequiredToRedeem,
		EarningEnabled:         d.EarningEnabled,
		RedemptionEnabled:      d.RedemptionEnabled,
		CouponEligible:         d.CouponEligible,
		CouponCategories:       d.CouponCategories,
		AllowStackingWithCoins: d.AllowStackingWithCoins,
	}
	p.MaxCouponDiscountPct, err = fromDec128(d.MaxCouponDiscountPct)
	return p, err
}

func newCouponDoc(c models.Coupon) (doc couponDoc, err error) {
	doc = couponDoc{
		ID:                c.ID.String(),
		Code:              c.Code,
		DiscountType:      string(c.DiscountType),
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		TotalUsageLimit:   c.TotalUsageLimit,
		PerUserUsageLimit: c.PerUserUsageLimit,
		Active:            c.Active,
		Categories:        c.Categories,
	}
	if doc.DiscountValue, err = toDec128(c.DiscountValue); err != nil {
		return doc, err
	}
	if doc.MinOrderValue, err = toDec128(c.MinOrderValue); err != nil {
		return doc, err
	}
	if c.MaxDiscountAmount != nil {
		m, err := toDec128(*c.MaxDiscountAmount)
		if err != nil {
			return doc, err
		}
		doc.MaxDiscountAmount = &m
	}
	return doc, nil
}

func (d couponDoc) model() (c models.Coupon, err error) {
	c = models.Coupon{
		Code:              d.Code,
		DiscountType:      models.DiscountType(d.DiscountType),
		StartDate:         d.StartDate,
		EndDate:           d.EndDate,
		TotalUsageLimit:   d.TotalUsageLimit,
		PerUserUsageLimit: d.PerUserUsageLimit,
		Active:            d.Active,
		Categories:        d.Categories,
	}
	if c.ID, err = uuid.Parse(d.ID); err != nil {
		return c, err
	}
	if c.DiscountValue, err = fromDec128(d.DiscountValue); err != nil {
		return c, err
	}
	if c.MinOrderValue, err = fromDec128(d.MinOrderValue); err != nil {
		return c, err
	}
	if d.MaxDiscountAmount != nil {
		m, err := fromDec128(*d.MaxDiscountAmount)
		if err != nil {
			return c, err
		}
		c.MaxDiscountAmount = &m
	}
	return c, nil
}
