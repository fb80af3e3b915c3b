package mongo

import (
	"context"

	"pet-school-registry/internal/domain/pets"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type petDoc struct {
	ID     int64           `bson:"_id"`
	Name   string          `bson:"name"`
	Breed  string          `bson:"breed"`
	Age    int             `bson:"age"`
	Owner  string          `bson:"owner"`
	School *pets.SchoolRef `bson:"school"`
}

type PetsRepo struct {
	db *mongo.Database
}

func NewPetsRepo(db *mongo.Database) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) col() *mongo.Collection {
	return r.db.Collection("pets")
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	id, err := nextID(ctx, r.db, "pets")
	if err != nil {
		return pets.Pet{}, err
	}
	p.ID = id

	if _, err := r.col().InsertOne(ctx, toPetDoc(p)); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	var d petDoc
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return fromPetDoc(d), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, owner string) ([]pets.Pet, error) {
	cur, err := r.col().Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]pets.Pet, 0)
	for cur.Next(ctx) {
		var d petDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fromPetDoc(d))
	}
	return out, cur.Err()
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": p.ID}, toPetDoc(p))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func toPetDoc(p pets.Pet) petDoc {
	return petDoc{
		ID:     p.ID,
		Name:   p.Name,
		Breed:  p.Breed,
		Age:    p.Age,
		Owner:  p.Owner,
		School: p.School,
	}
}

func fromPetDoc(d petDoc) pets.Pet {
	return pets.Pet{
		ID:     d.ID,
		Name:   d.Name,
		Breed:  d.Breed,
		Age:    d.Age,
		Owner:  d.Owner,
		School: d.School,
	}
}
