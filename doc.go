// Package storyboard is the Composition Root for the story board.
//
// It connects the note-card domain (pkg/core) with the filesystem adapter
// (pkg/adapters/fs) using the Hexagonal Architecture pattern.
//
// A board is an unbounded canvas of note cards. Each card has a position in
// document space, a title, up to ten bullet points, a category tag and a
// color. The board keeps a zoom transform separate from card positions, so
// zooming never moves a card in the document and snapping always aligns it
// to the document grid.
//
// Features:
//
//   - **Document-space model**: screen placement is a pure function of the
//     card position and the board Viewport.
//   - **All-or-nothing load**: a malformed document never replaces the board.
//   - **Atomic saves**: writes go through a temp file and a rename.
//   - **Formats**: JSON by default, YAML for `.yaml`/`.yml` documents.
//   - **Live reload**: Watch reloads the board when the file changes elsewhere.
//
// Usage:
//
//	svc, err := storyboard.New("./novel",
//		storyboard.WithGridSize(20),
//		storyboard.WithLogger(logger),
//	)
//	if err := svc.Load(ctx); err != nil && !errors.Is(err, storyboard.ErrDocumentNotFound) {
//		return err
//	}
//	note, err := svc.CreateNote(storyboard.Point{X: 120, Y: 80}, storyboard.TagScene)
//	err = svc.Save(ctx)
package storyboard
