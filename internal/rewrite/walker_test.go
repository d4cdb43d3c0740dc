package rewrite

import (
	"context"
	"testing"

	"pydoxy/internal/config"
	"pydoxy/internal/errors"
	"pydoxy/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
}

func annotate(t *testing.T, source string, opts *config.Options) string {
	t.Helper()
	got, err := Run(context.Background(), []byte(source), opts, testLogger())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return got
}

func TestRunFunctionDocstring(t *testing.T) {
	source := `def greet(name):
    """Greet someone.

    Args:
        name (str): who to greet
    """
    return "Hi " + name
`
	want := `## @brief Greet someone.
#
#
# @param		name	who to greet
#
def greet(name):
    return "Hi " + name`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunModuleDocstring(t *testing.T) {
	source := `"""Top module.

More detail here.
"""
x = 1
`
	want := `## @brief Top module.
#
#More detail here.
#
x = 1`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunProtectedFunctionGetsVisibilityTag(t *testing.T) {
	source := `def _hidden():
    """Does hidden work."""
    pass
`
	want := `## @brief Does hidden work.
#
# @protected
def _hidden():
    pass`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunNamespaceTail(t *testing.T) {
	opts := briefOpts()
	opts.TopLevelNamespace = "pkg"
	opts.FullPathNamespace = "pkg.mod"
	source := `def greet():
    """Hi."""
    return 1
`
	want := `## @brief Hi.
# @namespace pkg.mod.greet
def greet():
    return 1`
	if got := annotate(t, source, opts); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunInterfaceGetsPassStatements(t *testing.T) {
	source := `class IThing(Interface):
    """A thing."""

    def do(self):
        """Do the thing."""
`
	want := `## @brief A thing.
#
# @interface IThing
class IThing(Interface):
    pass

    ## @brief Do the thing.
    def do(self):
        pass`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunAttributeDeclaration(t *testing.T) {
	source := `class IThing(Interface):
    """Spec."""

    name = Attribute("The name")
`
	got := annotate(t, source, briefOpts())
	want := `## @brief Spec.
#
# @interface IThing
class IThing(Interface):
    pass

    ## @property name
    # The name
    # @hideinitializer
    name = Attribute("The name")`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunProtectedVariable(t *testing.T) {
	source := `_secret = 42
`
	want := `## @var _secret
# @hideinitializer
# @protected
_secret = 42`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunImplementsDeclaration(t *testing.T) {
	source := `implements(IThing)
`
	want := `## @implements IThing
implements(IThing)`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunClassPropertyHoisting(t *testing.T) {
	source := `class Config(object):
    """Holds settings.

    Attributes:
        debug: enables verbose output
    """

    def __init__(self):
        self.debug = False
`
	want := `## @brief Holds settings.
#
#
#
class Config(object):

    ## @property		debug
    # enables verbose output

    def __init__(self):
        self.debug = False`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunAutobriefOffLeavesHeadings(t *testing.T) {
	source := `def greet(name):
    """Greet someone.

    Args:
        name (str): who to greet
    """
    return name
`
	want := `##Greet someone.
#
#    Args:
#        name (str): who to greet
#
def greet(name):
    return name`
	if got := annotate(t, source, config.Default()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunRejectsInvalidPython(t *testing.T) {
	_, err := Run(context.Background(), []byte("def broken(:\n"), briefOpts(), testLogger())
	if err == nil {
		t.Fatal("expected an error for invalid input")
	}
	if errors.CodeOf(err) != errors.ParseFailed {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.ParseFailed)
	}
}

func TestRunWithoutDocstringsIsUnchanged(t *testing.T) {
	source := `def add(a, b):
    return a + b
`
	want := `def add(a, b):
    return a + b`
	if got := annotate(t, source, briefOpts()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
