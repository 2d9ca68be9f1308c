package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

const appointmentsCollection = "appointments"

// AppointmentRepository persists ledger records in MongoDB. The compound
// unique index on (doctor_id, scheduled_at) is the storage-level slot
// guarantee: of two concurrent bookings for the same slot, exactly one
// insert succeeds and the other surfaces ErrSlotConflict.
type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(appointmentsCollection)}
}

type mongoAppointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	DoctorID    string             `bson:"doctor_id"`
	PatientID   string             `bson:"patient_id"`
	ScheduledAt time.Time          `bson:"scheduled_at"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toMongoAppointment(a *domain.Appointment) mongoAppointment {
	return mongoAppointment{
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		ScheduledAt: a.ScheduledAt.UTC(),
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

func (ma *mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:          ma.ID.Hex(),
		DoctorID:    ma.DoctorID,
		PatientID:   ma.PatientID,
		ScheduledAt: ma.ScheduledAt.UTC(),
		CreatedAt:   ma.CreatedAt.UTC(),
		UpdatedAt:   ma.UpdatedAt.UTC(),
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	res, err := r.coll.InsertOne(ctx, toMongoAppointment(a))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlotConflict
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findByObjectID(ctx, id)
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *AppointmentRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (*domain.Appointment, error) {
	var ma mongoAppointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{})
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Appointment, error) {
	return r.list(ctx, bson.M{"doctor_id": doctorID})
}

func (r *AppointmentRepository) ListInRange(ctx context.Context, filter ports.RangeFilter) ([]*domain.Appointment, error) {
	scheduled := bson.M{"$gte": filter.From.UTC()}
	if filter.To != nil {
		scheduled["$lt"] = filter.To.UTC()
	}

	query := bson.M{"scheduled_at": scheduled}
	if filter.DoctorIDs != nil {
		query["doctor_id"] = bson.M{"$in": filter.DoctorIDs}
	}
	return r.list(ctx, query)
}

func (r *AppointmentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	appts := make([]*domain.Appointment, 0)
	for cur.Next(ctx) {
		var ma mongoAppointment
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appts = append(appts, ma.toDomain())
	}
	return appts, cur.Err()
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoAppointment(a))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlotConflict
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAppointmentNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// EnsureIndexes creates the compound unique slot index plus the doctor and
// time-range query indexes.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "scheduled_at", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "scheduled_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
