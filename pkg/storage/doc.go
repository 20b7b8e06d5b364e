// Package storage archives rendered reports in S3-compatible object storage.
//
// Objects are written under a date-partitioned key:
//
//	{prefix}/{Y}/{m}/{d}/{name}.html
//
// where name is usually the report event ID.
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "error-reports",
//		AccessKey: os.Getenv("LOG_S3_ACCESS_KEY"),
//		SecretKey: os.Getenv("LOG_S3_SECRET_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//
//	info, err := store.Put(ctx, strings.NewReader(html), int64(len(html)),
//		storage.WithPrefix("reports"),
//		storage.WithName(ev.ID),
//		storage.WithTime(ev.Time),
//	)
//
// Errors wrap the package sentinels (ErrNotFound, ErrAccessDenied,
// ErrUploadFailed, ErrDeleteFailed), so callers use errors.Is.
package storage
