// Package server provides the Idea House web server.

// This package contains the application entry point under cmd/server. The
// functionality is organized into subpackages:

// - internal/handlers: HTTP request handlers for all pages and form posts
// - internal/models: Data models and database schemas
// - internal/store: Database access for users, ideas, likes and follows
// - internal/session: Cookie sessions backed by Redis and route gating
// - internal/feed: Composes ideas, authors and likes into view payloads
// - internal/catalog: Category expansion and catalog pagination rules
// - internal/storage: Thumbnail storage (S3) operations
// - internal/database: Database connection and migrations
// - internal/cache: Redis connection pooling
// - internal/view: Boundary to the external template engine
// - internal/middleware: HTTP middleware (request ids, request logging)

// See the individual package documentation for detailed reference.
package server
