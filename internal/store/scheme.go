package store

import (
	"context"

	"github.com/yojanasetu/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// schemeFetchLimit caps how many records a single suggestion request
// pulls from a sector collection.
const schemeFetchLimit = 50

const defaultSectorCollection = "educations"

// sectorCollections maps a normalized sector name to its collection.
var sectorCollections = map[string]string{
	"agriculture":    "agricultures",
	"education":      "educations",
	"healthcare":     "healthcares",
	"social-welfare": "socialwelfares",
	"transport":      "transports",
	"women":          "womens",
}

// CollectionForSector resolves the collection holding a sector's schemes.
// Unrecognized sectors fall back to the education collection.
func CollectionForSector(sector string) string {
	if name, ok := sectorCollections[sector]; ok {
		return name
	}
	return defaultSectorCollection
}

// KnownSector reports whether the sector has a dedicated collection.
func KnownSector(sector string) bool {
	_, ok := sectorCollections[sector]
	return ok
}

// SchemeRepository reads scheme records from the sector-partitioned
// collections. The collections are externally populated and read-only here.
type SchemeRepository struct {
	db *mongo.Database
}

func NewSchemeRepository(db *mongo.Database) *SchemeRepository {
	return &SchemeRepository{db: db}
}

func (r *SchemeRepository) ListBySector(ctx context.Context, sector string) ([]types.SchemeRecord, error) {
	col := r.db.Collection(CollectionForSector(sector))

	cursor, err := col.Find(ctx, bson.D{}, options.Find().SetLimit(schemeFetchLimit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schemes []types.SchemeRecord
	if err := cursor.All(ctx, &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}
