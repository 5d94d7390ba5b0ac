package analyses

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verdict/internal/analyst"
	"github.com/JaimeStill/verdict/pkg/pagination"
	"github.com/JaimeStill/verdict/pkg/storage"
)

// Analyzer produces a normalized analysis for one post.
type Analyzer interface {
	Analyze(ctx context.Context, in analyst.Input) (*analyst.Outcome, error)
}

// System defines the public contract for analysis domain operations.
// Every read and delete is scoped to the owning user.
type System interface {
	Handler(maxUploadSize int64) *Handler

	Analyze(ctx context.Context, userID string, in analyst.Input) (*Outcome, error)
	Save(ctx context.Context, cmd SaveCommand) (*Analysis, error)
	History(ctx context.Context, userID string) ([]Analysis, error)

	List(
		ctx context.Context,
		userID string,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, userID string, id uuid.UUID) (*Analysis, error)
	Media(ctx context.Context, userID string, id uuid.UUID, kind MediaKind) (*storage.Blob, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// Purge removes analyses created before the cutoff along with their
	// media and returns how many rows were deleted.
	Purge(ctx context.Context, before time.Time) (int, error)
}
