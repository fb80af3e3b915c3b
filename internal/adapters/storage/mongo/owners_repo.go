package mongo

import (
	"context"

	"pet-school-registry/internal/domain/owners"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ownerDoc struct {
	ID      int64   `bson:"_id"`
	OwnerID string  `bson:"owner_id"`
	Pets    []int64 `bson:"pets"`
}

type OwnersRepo struct {
	db *mongo.Database
}

func NewOwnersRepo(db *mongo.Database) *OwnersRepo {
	return &OwnersRepo{db: db}
}

func (r *OwnersRepo) col() *mongo.Collection {
	return r.db.Collection("owners")
}

// GetOrCreateByIdentity: lectura primero; si no existe, insert que apoya en el
// índice único de owner_id. Si otro request gana la carrera, el duplicate key
// nos manda de vuelta a la lectura.
func (r *OwnersRepo) GetOrCreateByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	o, err := r.GetByIdentity(ctx, ownerID)
	if err == nil {
		return o, nil
	}
	if err != owners.ErrNotFound {
		return owners.Owner{}, err
	}

	id, err := nextID(ctx, r.db, "owners")
	if err != nil {
		return owners.Owner{}, err
	}

	d := ownerDoc{ID: id, OwnerID: ownerID, Pets: []int64{}}
	if _, err := r.col().InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByIdentity(ctx, ownerID)
		}
		return owners.Owner{}, err
	}
	return fromOwnerDoc(d), nil
}

func (r *OwnersRepo) GetByIdentity(ctx context.Context, ownerID string) (owners.Owner, error) {
	var d ownerDoc
	if err := r.col().FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	return fromOwnerDoc(d), nil
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]owners.Owner, 0)
	for cur.Next(ctx) {
		var d ownerDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fromOwnerDoc(d))
	}
	return out, cur.Err()
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"owner_id": o.OwnerID},
		bson.M{"$set": bson.M{"pets": o.Pets}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func fromOwnerDoc(d ownerDoc) owners.Owner {
	if d.Pets == nil {
		d.Pets = []int64{}
	}
	return owners.Owner{ID: d.ID, OwnerID: d.OwnerID, Pets: d.Pets}
}
