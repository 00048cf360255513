package version

// Version is stamped by the linker in release builds. Development builds
// report "dev".
var Version = "dev"
