package app

import "context"

type App interface {
	StartApp(ctx context.Context) error
	StopApp(ctx context.Context) error
}
