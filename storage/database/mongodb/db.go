// Package mongodb implements the campus store on MongoDB, one collection per entity kind.
package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

// collection names
const (
	studentsColl         = "students"
	timetablesColl       = "timetables"
	attendanceColl       = "attendance"
	assignmentsColl      = "assignments"
	notificationsColl    = "notifications"
	bookingsColl         = "bookings"
	logsColl             = "logs"
	materialsColl        = "materials"
	examsColl            = "exams"
	feedbackColl         = "feedbacks"
	feeStructuresColl    = "feestructures"
	transactionsColl     = "transactions"
	scholarshipsColl     = "scholarships"
	dueRemindersColl     = "duereminders"
	facultyColl          = "faculty"
	facultySchedulesColl = "facultyschedules"
	facultyLeavesColl    = "facultyleaves"
	facultyWorkloadsColl = "facultyworkloads"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ campus.Store = (*DB)(nil)

// Open connects to conf.Mongo.URL and pings the primary within conf.Mongo.ConnectTimeout.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo.URL))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongo")
	}

	db := &DB{client: client, db: client.Database(conf.Mongo.Database)}
	if err = db.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return db, nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	plain := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		studentsColl:         {unique("studentId")},
		timetablesColl:       {unique("studentId")},
		attendanceColl:       {unique("studentId")},
		assignmentsColl:      {plain("studentId")},
		notificationsColl:    {plain("studentId")},
		bookingsColl:         {plain("studentId")},
		logsColl:             {plain("studentId")},
		materialsColl:        {plain("studentId")},
		examsColl:            {plain("studentId")},
		feedbackColl:         {plain("studentId")},
		feeStructuresColl:    {{Keys: bson.D{{Key: "program", Value: 1}, {Key: "semester", Value: 1}}}},
		transactionsColl:     {plain("studentId")},
		scholarshipsColl:     {unique("id"), plain("studentId")},
		dueRemindersColl:     {unique("id"), plain("studentId")},
		facultyColl:          {unique("facultyId")},
		facultySchedulesColl: {unique("facultyId")},
		facultyLeavesColl:    {plain("facultyId")},
		facultyWorkloadsColl: {unique("facultyId")},
	}
	for name, models := range indexes {
		if _, err := db.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", name)
		}
	}
	return nil
}

func (db *DB) Name() string { return "mongo" }

func (db *DB) Close(ctx context.Context) error {
	return errors.Wrap(db.client.Disconnect(ctx), "disconnecting from mongo")
}

// Drop deletes the whole database. Used by tests.
func (db *DB) Drop(ctx context.Context) error {
	return db.db.Drop(ctx)
}

func (db *DB) coll(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// find returns the documents matching filter in insertion order. It never returns a nil slice.
func find[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) ([]T, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "finding in %s", coll.Name())
	}
	out := make([]T, 0)
	if err = cur.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", coll.Name())
	}
	return out, nil
}

// findOne decodes the first document matching filter into v and reports whether there was one.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, v interface{}) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, errors.Wrapf(err, "finding one in %s", coll.Name())
	}
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	_, err := coll.InsertOne(ctx, doc)
	return errors.Wrapf(err, "inserting into %s", coll.Name())
}

// insertUnique inserts doc, reporting a unique index violation as campus.ErrDuplicate.
func insertUnique(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return campus.ErrDuplicate
		}
		return errors.Wrapf(err, "inserting into %s", coll.Name())
	}
	return nil
}

// replace upserts doc as the only document matching filter.
func replace(ctx context.Context, coll *mongo.Collection, filter bson.M, doc interface{}) error {
	_, err := coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "replacing in %s", coll.Name())
}

// match builds a filter out of the non-empty values of kv.
func match(kv ...string) bson.M {
	filter := bson.M{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			filter[kv[i]] = kv[i+1]
		}
	}
	return filter
}
