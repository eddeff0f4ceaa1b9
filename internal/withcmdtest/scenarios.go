// Message scenarios the cargo stub can emit. Paths are deliberately fixed and
// fake: transcripts launch the artifacts through `echo`, so nothing here ever
// needs to exist on disk, and fixed paths keep transcript output stable.
package main

const fakeTarget = "/tmp/cargo-with-target/debug"

var scenarios = map[string]string{
	"single-bin": `
{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["lib"],"crate_types":["lib"],"name":"hello","src_path":"/crate/src/lib.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/libhello.rlib"],"executable":null,"fresh":false}
{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["bin"],"crate_types":["bin"],"name":"hello","src_path":"/crate/src/main.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/hello"],"executable":"` + fakeTarget + `/hello","fresh":false}
{"reason":"build-finished","success":true}
`,

	"two-bins": `
{"reason":"compiler-artifact","package_id":"path+file:///crate/tools#0.1.0","target":{"kind":["bin"],"crate_types":["bin"],"name":"client","src_path":"/crate/src/bin/client.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/client"],"executable":"` + fakeTarget + `/client","fresh":false}
{"reason":"compiler-artifact","package_id":"path+file:///crate/tools#0.1.0","target":{"kind":["bin"],"crate_types":["bin"],"name":"server","src_path":"/crate/src/bin/server.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/server"],"executable":"` + fakeTarget + `/server","fresh":false}
{"reason":"build-finished","success":true}
`,

	"bin-and-example": `
{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["bin"],"crate_types":["bin"],"name":"hello","src_path":"/crate/src/main.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/hello"],"executable":"` + fakeTarget + `/hello","fresh":false}
{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["example"],"crate_types":["bin"],"name":"demo","src_path":"/crate/examples/demo.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":false},"features":[],"filenames":["` + fakeTarget + `/examples/demo"],"executable":"` + fakeTarget + `/examples/demo","fresh":false}
{"reason":"build-finished","success":true}
`,

	"test-bin": `
{"reason":"compiler-artifact","package_id":"path+file:///crate/hello#0.1.0","target":{"kind":["lib"],"crate_types":["lib"],"name":"hello","src_path":"/crate/src/lib.rs","edition":"2021"},"profile":{"opt_level":"0","debug_assertions":true,"test":true},"features":[],"filenames":["` + fakeTarget + `/deps/hello-abc123"],"executable":"` + fakeTarget + `/deps/hello-abc123","fresh":false}
{"reason":"build-finished","success":true}
`,

	"build-failed": `
{"reason":"compiler-message","message":{"rendered":"error[E0308]: mismatched types"}}
{"reason":"build-finished","success":false}
`,

	"no-artifacts": `
{"reason":"build-finished","success":true}
`,
}
