package domain

// domain package contains the Domain Models and Interfaces for photoshare.
//
// `domain/photoshare` package exposes root object for the application.
// Entrypoints should instantiate it and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/photo.go` contains the `Photo` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the entities:
// the RDB, object storage or external services.
// For example, `domain/photo/db` is the database expression of photos,
// and `domain/photo/storage` is where the image files live.
//
// # Entities
//
// - `photo`: an uploaded image, owned by a user. Photos are tagged, commented,
// and collected into albums. After upload, "derivatives" (resized copies) are
// generated in background, and labels are detected by Rekognition.
//
// - `album`: ordered collection of photos with privacy level.
// Unlisted albums can be read with its share token, which can be sent by e-mail.
//
// - `tag`: label on photos. Tags come from users, from Flickr metadata, or from
// Rekognition. "Related tags" are directed co-occurrence statistics between tags,
// recomputed in batch.
//
// - `comment`: comment on a photo.
//
// - `user`: registered user. Users can claim legacy Flickr identities (`flickr`).
//
// - `setting`: site-wide settings, editable by admins.
//
// And others:
//
// - `job`: queue of background work. Loops in `cmd/jobs` pick jobs from here.
//
// - `garbage`: storage objects to be removed, after photos are deleted.
//
// - `keychain`: signing keys for session tokens.
//
// - `loop`: types of background loops.
