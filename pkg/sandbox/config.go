package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
	"github.com/provide-io/playground/go/sandbox/pkg/utils/shellparse"
)

// Defaults used when neither the manifest nor the environment says otherwise.
const (
	DefaultApplicationID = "io.provide.playground"
	DefaultCompileSDK    = 31
	DefaultTheme         = "Theme.AppCompat.Light.NoActionBar"
)

// Environment variables read by ConfigFromEnv. List values are split with
// shell quoting rules.
const (
	EnvAppDir           = "SANDBOX_APP_DIR"
	EnvApplicationID    = "SANDBOX_APPLICATION_ID"
	EnvPackageName      = "SANDBOX_PACKAGE_NAME"
	EnvLocalResDirs     = "SANDBOX_LOCAL_RES_DIRS"
	EnvModuleResDirs    = "SANDBOX_MODULE_RES_DIRS"
	EnvModuleAssetDirs  = "SANDBOX_MODULE_ASSET_DIRS"
	EnvLibrariesDir     = "SANDBOX_LIBRARIES_DIR"
	EnvLibraryResDirs   = "SANDBOX_LIBRARY_RES_DIRS"
	EnvLibraryAssetDirs = "SANDBOX_LIBRARY_ASSET_DIRS"
	EnvSymbolFiles      = "SANDBOX_SYMBOL_FILES"
	EnvCompileSDK       = "SANDBOX_COMPILE_SDK"
	EnvPlatformDir      = "SANDBOX_PLATFORM_DIR"
	EnvNamespacing      = "SANDBOX_NAMESPACING"
	EnvTheme            = "SANDBOX_THEME"
	EnvAndroidSDKRoot   = "ANDROID_SDK_ROOT"
	EnvAndroidHome      = "ANDROID_HOME"
)

// Config describes one sandbox: the application, its modules and libraries
// and the platform SDK. It is plain data; New turns it into a Session.
type Config struct {
	App         AppConfig       `json:"app"`
	Modules     []ModuleConfig  `json:"modules,omitempty"`
	Libraries   LibrariesConfig `json:"libraries"`
	Platform    PlatformConfig  `json:"platform"`
	Namespacing string          `json:"namespacing,omitempty"`
	Theme       string          `json:"theme,omitempty"`
	CacheDir    string          `json:"cache_dir,omitempty"`
}

// AppConfig is the main module.
type AppConfig struct {
	Dir           string `json:"dir"`
	ApplicationID string `json:"application_id"`
	PackageName   string `json:"package_name,omitempty"`

	// ResDirs defaults to <dir>/res. Later directories override earlier ones.
	ResDirs     []string `json:"res_dirs,omitempty"`
	AssetsDir   string   `json:"assets_dir,omitempty"`
	SymbolFiles []string `json:"symbol_files,omitempty"`
}

// ModuleConfig is one embedded module of the project.
type ModuleConfig struct {
	Name        string   `json:"name,omitempty"`
	PackageName string   `json:"package_name,omitempty"`
	ResDirs     []string `json:"res_dirs"`
	AssetDirs   []string `json:"asset_dirs,omitempty"`
}

// LibrariesConfig lists library inputs. Dir is scanned for unpacked
// libraries and library archives; ResDirs name library res folders
// directly.
type LibrariesConfig struct {
	Dir       string   `json:"dir,omitempty"`
	ResDirs   []string `json:"res_dirs,omitempty"`
	AssetDirs []string `json:"asset_dirs,omitempty"`
}

// PlatformConfig locates the Android platform.
type PlatformConfig struct {
	AndroidHome string `json:"android_home,omitempty"`
	CompileSDK  int    `json:"compile_sdk,omitempty"`
	Dir         string `json:"dir,omitempty"`
}

// DefaultConfig returns a configuration rooted at the working directory.
func DefaultConfig() Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Config{
		App: AppConfig{
			Dir:           wd,
			ApplicationID: DefaultApplicationID,
		},
		Platform: PlatformConfig{
			AndroidHome: AndroidHome(),
			CompileSDK:  DefaultCompileSDK,
		},
		Namespacing: resources.NamespacingDisabled.String(),
		Theme:       DefaultTheme,
	}
}

// AndroidHome returns the SDK root from the environment or the platform's
// usual install location.
func AndroidHome() string {
	for _, env := range []string{EnvAndroidSDKRoot, EnvAndroidHome} {
		if dir := os.Getenv(env); dir != "" {
			return dir
		}
	}
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Android", "Sdk")
	case "darwin":
		return filepath.Join(home, "Library", "Android", "sdk")
	}
	return "/usr/local/share/android-sdk"
}

// LoadManifest reads a JSON manifest over DefaultConfig.
func LoadManifest(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading manifest: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	cfg.resolveRelative(filepath.Dir(path))
	return cfg, nil
}

// resolveRelative makes manifest paths relative to the manifest's folder.
func (c *Config) resolveRelative(base string) {
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	absAll := func(ps []string) {
		for i := range ps {
			abs(&ps[i])
		}
	}

	abs(&c.App.Dir)
	abs(&c.App.AssetsDir)
	absAll(c.App.ResDirs)
	absAll(c.App.SymbolFiles)
	for i := range c.Modules {
		absAll(c.Modules[i].ResDirs)
		absAll(c.Modules[i].AssetDirs)
	}
	abs(&c.Libraries.Dir)
	absAll(c.Libraries.ResDirs)
	absAll(c.Libraries.AssetDirs)
	abs(&c.Platform.Dir)
	abs(&c.Platform.AndroidHome)
	abs(&c.CacheDir)
}

// ConfigFromEnv overlays the SANDBOX_* environment on cfg. Module
// resource directories from the environment each become one module.
func ConfigFromEnv(cfg Config) (Config, error) {
	str := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	list := func(env string, dst *[]string) error {
		v, ok := os.LookupEnv(env)
		if !ok {
			return nil
		}
		words, err := shellparse.Split(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*dst = words
		return nil
	}

	str(EnvAppDir, &cfg.App.Dir)
	str(EnvApplicationID, &cfg.App.ApplicationID)
	str(EnvPackageName, &cfg.App.PackageName)
	str(EnvLibrariesDir, &cfg.Libraries.Dir)
	str(EnvPlatformDir, &cfg.Platform.Dir)
	str(EnvNamespacing, &cfg.Namespacing)
	str(EnvTheme, &cfg.Theme)

	var moduleDirs, moduleAssets []string
	lists := []struct {
		env string
		dst *[]string
	}{
		{EnvLocalResDirs, &cfg.App.ResDirs},
		{EnvSymbolFiles, &cfg.App.SymbolFiles},
		{EnvLibraryResDirs, &cfg.Libraries.ResDirs},
		{EnvLibraryAssetDirs, &cfg.Libraries.AssetDirs},
		{EnvModuleResDirs, &moduleDirs},
		{EnvModuleAssetDirs, &moduleAssets},
	}
	for _, l := range lists {
		if err := list(l.env, l.dst); err != nil {
			return cfg, err
		}
	}
	if moduleDirs != nil {
		cfg.Modules = nil
		for i, dir := range moduleDirs {
			cfg.Modules = append(cfg.Modules, ModuleConfig{Name: fmt.Sprintf("module%d", i+1), ResDirs: []string{dir}})
		}
	}
	if moduleAssets != nil {
		if len(cfg.Modules) == 0 {
			cfg.Modules = append(cfg.Modules, ModuleConfig{Name: "assets"})
		}
		cfg.Modules[0].AssetDirs = moduleAssets
	}

	if v := os.Getenv(EnvCompileSDK); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: invalid SDK version %q", EnvCompileSDK, v)
		}
		cfg.Platform.CompileSDK = n
	}
	return cfg, nil
}

// ResDirs returns the main module's resource directories.
func (c *Config) ResDirs() []string {
	if len(c.App.ResDirs) > 0 {
		return c.App.ResDirs
	}
	return []string{filepath.Join(c.App.Dir, android.FdRes)}
}

// AssetsDir returns the main module's assets directory.
func (c *Config) AssetsDir() string {
	if c.App.AssetsDir != "" {
		return c.App.AssetsDir
	}
	return filepath.Join(c.App.Dir, android.FdAssets)
}

// PlatformDir returns <android home>/platforms/android-<sdk> unless set.
func (c *Config) PlatformDir() string {
	if c.Platform.Dir != "" {
		return c.Platform.Dir
	}
	sdk := c.Platform.CompileSDK
	if sdk == 0 {
		sdk = DefaultCompileSDK
	}
	return filepath.Join(c.Platform.AndroidHome, android.FdPlatforms, fmt.Sprintf("android-%d", sdk))
}

// PlatformResDir returns the framework resources of the platform.
func (c *Config) PlatformResDir() string {
	return filepath.Join(c.PlatformDir(), android.FdData, android.FdRes)
}

// NamespacingMode parses Namespacing.
func (c *Config) NamespacingMode() (resources.Namespacing, error) {
	return resources.ParseNamespacing(c.Namespacing)
}

// Validate runs the checks that make construction fail: the platform and
// its data directory must exist and the namespacing mode must be known.
// Missing resource directories are reported by the loaders.
func (c *Config) Validate() error {
	if _, err := c.NamespacingMode(); err != nil {
		return &sberrors.ConstructionError{Op: "config", Path: "namespacing", Err: err}
	}

	platformDir := c.PlatformDir()
	if !isDir(platformDir) {
		version := filepath.Base(platformDir)
		if i := strings.LastIndexByte(version, '-'); i >= 0 {
			version = version[i+1:]
		}
		return &sberrors.ConstructionError{
			Op:   "platform",
			Path: platformDir,
			Err: fmt.Errorf("%w: missing platform version %s, install with sdkmanager --install \"platforms;android-%s\"",
				sberrors.ErrPlatformDirMissing, version, version),
		}
	}
	if !isDir(c.PlatformResDir()) {
		return &sberrors.ConstructionError{Op: "platform", Path: c.PlatformResDir(), Err: sberrors.ErrPlatformDataMissing}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
