// Package domain defines the core business entities of quill-api: users,
// articles, article patches and the error categories shared by every layer.
//
// Entities validate their own invariants. Persistence and transport concerns
// live in the store and api packages.
package domain
