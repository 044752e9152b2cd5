// Package kernel resolves and caches PROS kernels. A kernel is a versioned
// project template (firmware, headers, build files) stored as one directory
// per identifier under a local cache root. The Resolver picks an identifier
// from an explicit request, the remote "latest" pointer, or the newest local
// entry, and downloads and unpacks the kernel's zip archive when the cache
// does not have it yet.
package kernel
