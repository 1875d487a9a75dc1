// Package lang parses the confxml configuration language and serializes the
// result to XML.
//
// # Grammar
//
// Input is processed one line at a time. A comment starts at the first "C"
// on a line and runs to end of line, wherever that "C" appears; blank lines
// are ignored. [WithCommentMarker] changes the marker and [WithWordComments]
// only accepts it as a word of its own outside strings, so that names such as
// SECRET survive.
//
//	name is value;            constant declaration (current scope only)
//	${name description}       report the constant: "name = value"
//	NAME                      declare a dictionary
//	begin                     open the declared dictionary
//	KEY := 42;                integer entry
//	KEY := 'text';            string entry
//	KEY := @{                 nested entry, closed by "end" then ";"
//	end                       close the open dictionary
//
// Dictionary names and entry keys are upper case letters and digits starting
// with a letter. Constant names may also use lower case and underscores.
//
// # Example
//
//	C server settings
//	port is 8080;
//	${port listening port}
//
//	SERVER
//	begin
//	    HOST := 'localhost';
//	    PORT := 8080;
//	    TLS := @{
//	        FILES
//	        begin
//	            PATH := '/etc/ssl/server.pem';
//	        end
//	    end
//	    ;
//	end
//
// The body of a nested entry runs to the "end" that balances the "begin" and
// "end" lines after the opener, and that "end" must be followed by ";". A
// dictionary inside the body that holds a nested entry itself is therefore
// left without its own "end" and closes at the end of the body.
// [WithNestedOpeners] counts each nested opener as a "begin" instead.
//
// A nested body is parsed in a scope of its own: constants declared outside
// are not visible inside and vice versa. The nested value is itself a
// [Document], so a body may declare more than one dictionary.
//
// # Errors
//
// Parsing stops at the first error. Every error is an [*Error] carrying the
// 1-based line number relative to the whole input, and matches one of the
// sentinels such as [ErrUndefinedConstant] or [ErrUnknownSyntax] with
// [errors.Is].
//
// # Output
//
// [Serialize] turns a [Document] into an XML element tree:
//
//	<config>
//	    <dictionary name="SERVER">
//	        <entry name="HOST">localhost</entry>
//	        <entry name="PORT">8080</entry>
//	        <entry name="TLS">
//	            <config>
//	                <dictionary name="FILES">
//	                    <entry name="PATH">/etc/ssl/server.pem</entry>
//	                </dictionary>
//	            </config>
//	        </entry>
//	    </dictionary>
//	</config>
//
// Documents can also be written back in native syntax ([Document.Format]),
// as JSON or YAML, and queried with expr-lang expressions
// ([Document.Evaluate]).
package lang
