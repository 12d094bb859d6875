// Package services implements the core application services: the
// retriever (index build/load and hybrid search), the conversational
// agent and session management. Services depend on driven ports only;
// adapters are injected at construction.
package services
