package entries

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orcadive/divelog/internal/client/models"
	"github.com/orcadive/divelog/internal/logging"
)

// CollectionName is the Firestore collection holding dive entries.
const CollectionName = "diveEntries"

// FirestoreRepository implements Repository on top of a Firestore client.
// Documents are keyed by the client-assigned entry id, so an optimistic
// local write and its server echo share the same identity.
type FirestoreRepository struct {
	client *firestore.Client
	log    logging.Logger
	now    func() time.Time
}

func NewFirestoreRepository(client *firestore.Client, log logging.Logger) *FirestoreRepository {
	return &FirestoreRepository{client: client, log: log, now: time.Now}
}

func (r *FirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection(CollectionName)
}

// Create writes a new document keyed by e.ID. The repository assigns the
// authoritative timestamps and returns them normalized.
func (r *FirestoreRepository) Create(ctx context.Context, e *models.DiveEntry) (WriteStamp, error) {
	stamp := WriteStamp{
		CreatedAt: models.Timestamp(r.now()),
		UpdatedAt: models.Timestamp(r.now()),
	}
	doc := e.Clone()
	doc.CreatedAt = stamp.CreatedAt
	doc.UpdatedAt = stamp.UpdatedAt

	if _, err := r.col().Doc(doc.ID).Create(ctx, doc); err != nil {
		return WriteStamp{}, mapError(err)
	}
	return stamp, nil
}

// Update overwrites the document with the given entry, refreshing only the
// updatedAt stamp.
func (r *FirestoreRepository) Update(ctx context.Context, e *models.DiveEntry) (WriteStamp, error) {
	stamp := WriteStamp{
		CreatedAt: e.CreatedAt,
		UpdatedAt: models.Timestamp(r.now()),
	}
	doc := e.Clone()
	doc.UpdatedAt = stamp.UpdatedAt

	if _, err := r.col().Doc(doc.ID).Set(ctx, doc); err != nil {
		return WriteStamp{}, mapError(err)
	}
	return stamp, nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *FirestoreRepository) QueryOwn(ctx context.Context, userID string) ([]*models.DiveEntry, error) {
	return r.runQuery(ctx, r.scopedQuery(Scope{UserID: userID}))
}

func (r *FirestoreRepository) QueryAll(ctx context.Context) ([]*models.DiveEntry, error) {
	return r.runQuery(ctx, r.scopedQuery(Scope{All: true}))
}

func (r *FirestoreRepository) scopedQuery(scope Scope) firestore.Query {
	q := r.col().Query
	if !scope.All {
		q = q.Where("userId", "==", scope.UserID)
	}
	return q.OrderBy("date", firestore.Desc).OrderBy("createdAt", firestore.Desc)
}

func (r *FirestoreRepository) runQuery(ctx context.Context, q firestore.Query) ([]*models.DiveEntry, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var out []*models.DiveEntry
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		if e := r.decode(snap); e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// Subscribe starts a standing query. Every delivery carries the complete
// current result set. The returned function cancels the stream; the
// callback goroutine exits without invoking onError on plain cancellation.
func (r *FirestoreRepository) Subscribe(ctx context.Context, scope Scope, onSnapshot func([]*models.DiveEntry), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := r.scopedQuery(scope).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				r.log.Error(ctx, "entry subscription failed", "error", err)
				onError(mapError(err))
				return
			}

			entries := make([]*models.DiveEntry, 0, snap.Size)
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					r.log.Error(ctx, "entry snapshot read failed", "error", err)
					onError(mapError(err))
					return
				}
				if e := r.decode(doc); e != nil {
					entries = append(entries, e)
				}
			}
			onSnapshot(entries)
		}
	}()

	return cancel, nil
}

// decode unmarshals a document into a DiveEntry, falling back to the
// document id when the payload lacks one. Undecodable documents are
// dropped with a warning rather than propagated.
func (r *FirestoreRepository) decode(snap *firestore.DocumentSnapshot) *models.DiveEntry {
	var e models.DiveEntry
	if err := snap.DataTo(&e); err != nil {
		r.log.Warn(context.Background(), "skipping undecodable entry document", "doc", snap.Ref.ID, "error", err)
		return nil
	}
	if e.ID == "" {
		e.ID = snap.Ref.ID
	}
	return &e
}

// mapError translates a Firestore/gRPC failure into the repository's
// sentinel errors so callers can classify with errors.Is.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("repository error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	default:
		return fmt.Errorf("repository error: %w", err)
	}
}
