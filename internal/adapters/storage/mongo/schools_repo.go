package mongo

import (
	"context"

	"pet-school-registry/internal/domain/schools"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type schoolDoc struct {
	ID         int64   `bson:"_id"`
	Name       string  `bson:"name"`
	Location   string  `bson:"location"`
	Headmaster string  `bson:"headmaster"`
	Students   []int64 `bson:"students"`
}

type SchoolsRepo struct {
	db *mongo.Database
}

func NewSchoolsRepo(db *mongo.Database) *SchoolsRepo {
	return &SchoolsRepo{db: db}
}

func (r *SchoolsRepo) col() *mongo.Collection {
	return r.db.Collection("schools")
}

func (r *SchoolsRepo) Create(ctx context.Context, sch schools.School) (schools.School, error) {
	id, err := nextID(ctx, r.db, "schools")
	if err != nil {
		return schools.School{}, err
	}
	sch.ID = id

	if _, err := r.col().InsertOne(ctx, toSchoolDoc(sch)); err != nil {
		return schools.School{}, err
	}
	return sch, nil
}

func (r *SchoolsRepo) GetByID(ctx context.Context, id int64) (schools.School, error) {
	var d schoolDoc
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return schools.School{}, schools.ErrNotFound
		}
		return schools.School{}, err
	}
	return fromSchoolDoc(d), nil
}

func (r *SchoolsRepo) List(ctx context.Context) ([]schools.School, error) {
	cur, err := r.col().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]schools.School, 0)
	for cur.Next(ctx) {
		var d schoolDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fromSchoolDoc(d))
	}
	return out, cur.Err()
}

func (r *SchoolsRepo) Update(ctx context.Context, sch schools.School) error {
	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": sch.ID}, toSchoolDoc(sch))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return schools.ErrNotFound
	}
	return nil
}

func (r *SchoolsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return schools.ErrNotFound
	}
	return nil
}

func toSchoolDoc(sch schools.School) schoolDoc {
	students := sch.Students
	if students == nil {
		students = []int64{}
	}
	return schoolDoc{
		ID:         sch.ID,
		Name:       sch.Name,
		Location:   sch.Location,
		Headmaster: sch.Headmaster,
		Students:   students,
	}
}

func fromSchoolDoc(d schoolDoc) schools.School {
	if d.Students == nil {
		d.Students = []int64{}
	}
	return schools.School{
		ID:         d.ID,
		Name:       d.Name,
		Location:   d.Location,
		Headmaster: d.Headmaster,
		Students:   d.Students,
	}
}
