package ontology

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/quantumblockchains/ontochat/db"
	"github.com/quantumblockchains/ontochat/errors"
)

// Store is the read/write interface over the triple store. All query
// methods are read-only; label matching is case-insensitive throughout.
type Store interface {
	// AllLabels returns every distinct normalized concept label.
	AllLabels(ctx context.Context) ([]string, error)

	// SubjectsByLabel returns subject IRIs whose label matches the concept.
	// exact requires label == concept; otherwise the concept must appear
	// as a substring of the label.
	SubjectsByLabel(ctx context.Context, concept string, exact bool) ([]string, error)

	// ObjectsByLabel returns objects of the given predicate on subjects
	// whose label matches the concept.
	ObjectsByLabel(ctx context.Context, concept, predicate string, exact bool) ([]string, error)

	// ObjectsBySubject returns objects of the given predicate on one subject IRI.
	ObjectsBySubject(ctx context.Context, subject, predicate string) ([]string, error)

	// SubjectsByPredicateObject returns subjects holding (predicate, object).
	SubjectsByPredicateObject(ctx context.Context, predicate, object string) ([]string, error)

	// ReferencesByLabel returns external references on subjects whose label
	// contains the concept.
	ReferencesByLabel(ctx context.Context, concept string) ([]Reference, error)

	// RelatedByLabel returns typed relations from subjects whose label
	// contains the concept, with the target concept's label resolved.
	RelatedByLabel(ctx context.Context, concept string) ([]RelatedConcept, error)

	// LabelForSubject returns a label for the subject IRI, or "" when none.
	LabelForSubject(ctx context.Context, subject string) (string, error)

	// InsertTriples persists triples in a single transaction,
	// ignoring exact duplicates.
	InsertTriples(ctx context.Context, triples []Triple) (int, error)

	// Count returns the total number of stored triples.
	Count(ctx context.Context) (int64, error)
}

// SQLStore implements Store against SQLite.
type SQLStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLStore creates a SQLite-backed triple store
func NewSQLStore(db *sql.DB, logger *zap.SugaredLogger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

// Query constants
const (
	allLabelsQuery = `
		SELECT DISTINCT LOWER(TRIM(object))
		FROM triples
		WHERE predicate = ?
		ORDER BY 1`

	subjectsByLabelExactQuery = `
		SELECT DISTINCT subject
		FROM triples
		WHERE predicate = ? AND LOWER(TRIM(object)) = ?
		ORDER BY subject`

	subjectsByLabelFuzzyQuery = `
		SELECT DISTINCT subject
		FROM triples
		WHERE predicate = ? AND INSTR(LOWER(object), ?) > 0
		ORDER BY subject`

	objectsByLabelExactQuery = `
		SELECT DISTINCT t2.object
		FROM triples t1
		JOIN triples t2 ON t1.subject = t2.subject
		WHERE t1.predicate = ? AND LOWER(TRIM(t1.object)) = ?
		  AND t2.predicate = ?
		ORDER BY t2.id`

	objectsByLabelFuzzyQuery = `
		SELECT DISTINCT t2.object
		FROM triples t1
		JOIN triples t2 ON t1.subject = t2.subject
		WHERE t1.predicate = ? AND INSTR(LOWER(t1.object), ?) > 0
		  AND t2.predicate = ?
		ORDER BY t2.id`

	objectsBySubjectQuery = `
		SELECT DISTINCT object
		FROM triples
		WHERE subject = ? AND predicate = ?
		ORDER BY id`

	subjectsByPredicateObjectQuery = `
		SELECT DISTINCT subject
		FROM triples
		WHERE predicate = ? AND object = ?
		ORDER BY subject`

	labelForSubjectQuery = `
		SELECT object
		FROM triples
		WHERE subject = ? AND predicate = ?
		ORDER BY id
		LIMIT 1`

	tripleInsertQuery = `
		INSERT OR IGNORE INTO triples (subject, predicate, object, object_is_iri)
		VALUES (?, ?, ?, ?)`

	tripleCountQuery = `SELECT COUNT(*) FROM triples`
)

// AllLabels returns every distinct normalized concept label
func (s *SQLStore) AllLabels(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, allLabelsQuery, PredicateLabel)
}

// SubjectsByLabel returns subject IRIs whose label matches the concept
func (s *SQLStore) SubjectsByLabel(ctx context.Context, concept string, exact bool) ([]string, error) {
	concept = NormalizeLabel(concept)
	if exact {
		return s.queryStrings(ctx, subjectsByLabelExactQuery, PredicateLabel, concept)
	}
	return s.queryStrings(ctx, subjectsByLabelFuzzyQuery, PredicateLabel, concept)
}

// ObjectsByLabel returns objects of predicate on subjects whose label matches
func (s *SQLStore) ObjectsByLabel(ctx context.Context, concept, predicate string, exact bool) ([]string, error) {
	concept = NormalizeLabel(concept)
	if exact {
		return s.queryStrings(ctx, objectsByLabelExactQuery, PredicateLabel, concept, predicate)
	}
	return s.queryStrings(ctx, objectsByLabelFuzzyQuery, PredicateLabel, concept, predicate)
}

// ObjectsBySubject returns objects of predicate on one subject IRI
func (s *SQLStore) ObjectsBySubject(ctx context.Context, subject, predicate string) ([]string, error) {
	return s.queryStrings(ctx, objectsBySubjectQuery, subject, predicate)
}

// SubjectsByPredicateObject returns subjects holding (predicate, object)
func (s *SQLStore) SubjectsByPredicateObject(ctx context.Context, predicate, object string) ([]string, error) {
	return s.queryStrings(ctx, subjectsByPredicateObjectQuery, predicate, object)
}

// ReferencesByLabel returns external references on matching subjects
func (s *SQLStore) ReferencesByLabel(ctx context.Context, concept string) ([]Reference, error) {
	concept = NormalizeLabel(concept)

	query := `
		SELECT DISTINCT t2.object, t2.predicate
		FROM triples t1
		JOIN triples t2 ON t1.subject = t2.subject
		WHERE t1.predicate = ? AND INSTR(LOWER(t1.object), ?) > 0
		  AND t2.predicate IN (` + placeholders(len(ReferencePredicates)) + `)
		ORDER BY t2.id`

	args := []interface{}{PredicateLabel, concept}
	for _, p := range ReferencePredicates {
		args = append(args, p)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query references")
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var uri, predicate string
		if err := rows.Scan(&uri, &predicate); err != nil {
			return nil, errors.Wrap(err, "scan reference")
		}
		refs = append(refs, Reference{URI: uri, Kind: Fragment(predicate)})
	}
	return refs, rows.Err()
}

// RelatedByLabel returns typed relations from matching subjects
func (s *SQLStore) RelatedByLabel(ctx context.Context, concept string) ([]RelatedConcept, error) {
	concept = NormalizeLabel(concept)

	// The relation target's label is resolved in the same pass; relations
	// pointing at unlabelled IRIs are dropped, matching the original
	// ontology queries which join on the target's label.
	query := `
		SELECT DISTINCT t2.object, t3.object, t2.predicate
		FROM triples t1
		JOIN triples t2 ON t1.subject = t2.subject
		JOIN triples t3 ON t2.object = t3.subject AND t3.predicate = ?
		WHERE t1.predicate = ? AND INSTR(LOWER(t1.object), ?) > 0
		  AND t2.predicate IN (` + placeholders(len(RelationPredicates)) + `)
		ORDER BY t2.id`

	args := []interface{}{PredicateLabel, PredicateLabel, concept}
	for _, p := range RelationPredicates {
		args = append(args, p)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query related concepts")
	}
	defer rows.Close()

	var related []RelatedConcept
	for rows.Next() {
		var iri, label, predicate string
		if err := rows.Scan(&iri, &label, &predicate); err != nil {
			return nil, errors.Wrap(err, "scan related concept")
		}
		related = append(related, RelatedConcept{
			IRI:      iri,
			Label:    label,
			Relation: Fragment(predicate),
		})
	}
	return related, rows.Err()
}

// LabelForSubject returns a label for the subject IRI, or "" when none
func (s *SQLStore) LabelForSubject(ctx context.Context, subject string) (string, error) {
	var label string
	err := s.db.QueryRowContext(ctx, labelForSubjectQuery, subject, PredicateLabel).Scan(&label)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "query label for %s", subject)
	}
	return label, nil
}

// InsertTriples persists triples in a single transaction, skipping duplicates.
// Returns the number of newly inserted triples.
func (s *SQLStore) InsertTriples(ctx context.Context, triples []Triple) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin insert transaction")
	}

	stmt, err := tx.PrepareContext(ctx, tripleInsertQuery)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "prepare triple insert")
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range triples {
		objectIsIRI := 0
		if t.ObjectIsIRI {
			objectIsIRI = 1
		}
		res, err := stmt.ExecContext(ctx, t.Subject, t.Predicate, t.Object, objectIsIRI)
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "insert triple (%s, %s)", t.Subject, Fragment(t.Predicate))
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit triple insert")
	}

	if s.logger != nil {
		s.logger.Debugw("Inserted triples", "total", len(triples), "new", inserted)
	}
	return inserted, nil
}

// Count returns the total number of stored triples
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, tripleCountQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count triples")
	}
	return count, nil
}

// queryStrings runs a query returning a single string column
func (s *SQLStore) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		// Queries racing a graceful shutdown hit the closed handle;
		// that is not worth an error-level log upstream.
		if db.IsDatabaseClosed(err) {
			return nil, errors.Wrap(db.ErrDatabaseClosed, "execute query")
		}
		return nil, errors.Wrap(err, "execute query")
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		results = append(results, value)
	}
	return results, rows.Err()
}

// placeholders returns "?, ?, ..." with n placeholders
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
