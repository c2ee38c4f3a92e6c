// Package dao is a data access object for file records.
package dao

import (
	"context"
	"regexp"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/storage-manager/internal/web/files/dto"
	"github.com/Laisky/storage-manager/internal/web/files/model"
	"github.com/Laisky/storage-manager/library/db/mongo"
)

const (
	colFiles = "files"

	// listResultCap bounds every list query.
	listResultCap = 100
)

// Files db
type Files struct {
	db mongo.DB
}

// NewFiles create new DB
func NewFiles(db mongo.DB) *Files {
	return &Files{db}
}

func (d *Files) GetFilesCol() *mongoLib.Collection {
	return d.db.GetCol(colFiles)
}

// listConditions translates the filter into backend predicates, one per present input.
func listConditions(f dto.ListFilesFilter) []bson.M {
	var conds []bson.M
	if len(f.Types) != 0 {
		conds = append(conds, bson.M{"type": bson.M{"$in": f.Types}})
	}
	if f.Search != "" {
		conds = append(conds, bson.M{"name": bson.M{
			"$regex":   regexp.QuoteMeta(f.Search),
			"$options": "i",
		}})
	}
	if len(f.Keywords) != 0 {
		conds = append(conds, bson.M{"keywords": bson.M{"$in": f.Keywords}})
	}
	if f.Category != "" {
		conds = append(conds, bson.M{"category": f.Category})
	}

	return conds
}

// List returns file records matching all present filter predicates, capped at 100.
func (d *Files) List(ctx context.Context, f dto.ListFilesFilter) ([]model.File, error) {
	cond := bson.M{}
	if conds := listConditions(f); len(conds) != 0 {
		cond = bson.M{"$and": conds}
	}

	cur, err := d.GetFilesCol().Find(ctx, cond,
		options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(listResultCap))
	if err != nil {
		return nil, errors.Wrap(err, "find files")
	}

	files := make([]model.File, 0)
	if err = cur.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "load files")
	}

	return files, nil
}

// Get loads one file record by id.
func (d *Files) Get(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	file := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.M{"_id": id}).
		Decode(file); err != nil {
		return nil, errors.Wrapf(err, "get file %s", id.Hex())
	}

	return file, nil
}

// Insert persists a new file record and fills its id.
func (d *Files) Insert(ctx context.Context, file *model.File) error {
	file.CreatedAt = gutils.Clock.GetUTCNow()
	file.UpdatedAt = file.CreatedAt

	ret, err := d.GetFilesCol().InsertOne(ctx, file)
	if err != nil {
		return errors.Wrap(err, "insert file docu")
	}

	file.ID = ret.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateName sets a new display name.
func (d *Files) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := d.GetFilesCol().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":       name,
			"updated_at": gutils.Clock.GetUTCNow(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "update file name")
	}

	return nil
}

// UpdateSharedWith replaces the shared-user email list.
func (d *Files) UpdateSharedWith(ctx context.Context, id primitive.ObjectID, emails []string) error {
	if emails == nil {
		emails = []string{}
	}

	_, err := d.GetFilesCol().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"shared_with": emails,
			"updated_at":  gutils.Clock.GetUTCNow(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "update shared users")
	}

	return nil
}

// SaveAnalysis writes the three AI-derived fields in one update call.
func (d *Files) SaveAnalysis(ctx context.Context, id primitive.ObjectID,
	summary string, keywords []string, category model.Category) error {
	_, err := d.GetFilesCol().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"summary":    summary,
			"keywords":   keywords,
			"category":   category,
			"updated_at": gutils.Clock.GetUTCNow(),
		}},
	)
	if err != nil {
		return errors.Wrap(err, "save analysis")
	}

	return nil
}

// Delete removes one file record.
func (d *Files) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := d.GetFilesCol().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete file docu")
	}

	return nil
}
