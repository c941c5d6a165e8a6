package catalog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
)

type Mongo struct {
	products *mongo.Collection
}

func NewMongo(products *mongo.Collection) *Mongo {
	return &Mongo{products: products}
}

var sortOrders = map[string]bson.D{
	"price-lowtohigh": {{Key: "price", Value: 1}},
	"price-hightolow": {{Key: "price", Value: -1}},
	"title-atoz":      {{Key: "productName", Value: 1}},
	"title-ztoa":      {{Key: "productName", Value: -1}},
	"stock-lowtohigh": {{Key: "stock", Value: 1}},
	"stock-hightolow": {{Key: "stock", Value: -1}},
}

func (m *Mongo) List(ctx context.Context, f Filters) ([]models.Product, error) {
	filter := bson.M{}
	if len(f.Recipients) > 0 {
		filter["recipient"] = bson.M{"$in": f.Recipients}
	}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if len(f.Jewellery) > 0 {
		filter["jewellery"] = bson.M{"$in": f.Jewellery}
	}

	sort, ok := sortOrders[f.SortBy]
	if !ok {
		sort = sortOrders["price-lowtohigh"]
	}
	cur, err := m.products.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return FilterByStockStatus(products, f.StockStatus), nil
}

func (m *Mongo) Find(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, inventory.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (m *Mongo) Create(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.StockSettings.LowStockThreshold == 0 {
		p.StockSettings.LowStockThreshold = 5
	}
	res, err := m.products.InsertOne(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}
