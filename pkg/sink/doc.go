// Package sink delivers rendered reports to files, e-mail, chat and object
// storage.
//
// A Dispatcher owns an ordered list of channels. For every event it renders
// the report once per page mode and hands it to each channel whose minimum
// severity admits the event:
//
//	d := sink.NewDispatcher(renderer, []sink.Channel{
//		{Sink: fileSink, Level: report.Debug},
//		{Sink: chatSink, Level: report.Error, FullPage: true},
//	}, sink.WithLogger(log), sink.WithMetrics(metrics))
//	defer d.Close()
//
//	_ = d.Dispatch(ctx, report.FromError(err))
//
// Channels run sequentially. A failing sink is logged at debug level and the
// next channel still runs. While a sink delivers, its name is suppressed in
// the context (see Suppress), so a log call made from inside the delivery
// never re-enters the same sink.
package sink
