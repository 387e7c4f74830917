package usecase

import (
	"context"

	"github.com/shandysiswandi/otpkit/internal/authenticator/reconcile"
	"go.opentelemetry.io/otel/attribute"
)

func (s *Usecase) Reconcile(ctx context.Context, remote []reconcile.RemoteEntry, local []reconcile.LocalEntry) []reconcile.EntryOperation {
	ctx, span := s.startSpan(ctx, "Reconcile")
	defer span.End()

	ops := reconcile.Reconcile(remote, local)

	span.SetAttributes(
		attribute.Int("sync.remote", len(remote)),
		attribute.Int("sync.local", len(local)),
		attribute.Int("sync.operations", len(ops)),
	)
	s.logger.DebugContext(ctx, "reconciled entries", "remote", len(remote), "local", len(local), "operations", len(ops))

	return ops
}

func (s *Usecase) MergeOrder(ctx context.Context, local, remote []reconcile.EntryWithOrder) []reconcile.EntryWithOrder {
	_, span := s.startSpan(ctx, "MergeOrder")
	defer span.End()

	return reconcile.MergeOrder(local, remote)
}
